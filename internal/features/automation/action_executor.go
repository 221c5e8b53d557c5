package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"go.uber.org/zap"
)

// ActionHandler executes one action type against a trigger event. New action
// types are added by registering a handler, never by editing the engine.
type ActionHandler interface {
	Execute(ctx context.Context, config map[string]interface{}, event TriggerEvent) error
}

// ActionHandlerFunc adapts a plain function to ActionHandler
type ActionHandlerFunc func(ctx context.Context, config map[string]interface{}, event TriggerEvent) error

func (f ActionHandlerFunc) Execute(ctx context.Context, config map[string]interface{}, event TriggerEvent) error {
	return f(ctx, config, event)
}

// EmailSender is satisfied by email.EmailService (adapted in main)
type EmailSender interface {
	SendEmail(ctx context.Context, to []string, subject, body string) error
}

// Notifier is satisfied by notification.NotificationService (adapted in main)
type Notifier interface {
	Notify(ctx context.Context, churchID, userID, title, message string) error
}

// StageUpdater is satisfied by member.MemberService (adapted in main)
type StageUpdater interface {
	UpdateLifecycleStage(ctx context.Context, churchID, memberID, stage string) error
}

// ActionExecutor dispatches rule actions to registered handlers
type ActionExecutor interface {
	Execute(ctx context.Context, action RuleAction, event TriggerEvent) error
	Register(actionType ActionType, handler ActionHandler)
}

type ActionExecutorImpl struct {
	handlers   map[ActionType]ActionHandler
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

func NewActionExecutor(
	emailSender EmailSender,
	notifier Notifier,
	followUpRepo FollowUpRepository,
	logger *zap.Logger,
) ActionExecutor {
	e := &ActionExecutorImpl{
		handlers:   make(map[ActionType]ActionHandler),
		timeout:    30 * time.Second,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}

	e.Register(ActionSendEmail, ActionHandlerFunc(func(ctx context.Context, config map[string]interface{}, event TriggerEvent) error {
		return executeSendEmail(ctx, emailSender, config, event)
	}))
	e.Register(ActionSendNotification, ActionHandlerFunc(func(ctx context.Context, config map[string]interface{}, event TriggerEvent) error {
		return executeSendNotification(ctx, notifier, config, event)
	}))
	e.Register(ActionCreateFollowUp, ActionHandlerFunc(func(ctx context.Context, config map[string]interface{}, event TriggerEvent) error {
		return executeCreateFollowUp(ctx, followUpRepo, config, event)
	}))
	e.Register(ActionWebhook, ActionHandlerFunc(e.executeWebhook))
	e.Register(ActionRunScript, ActionHandlerFunc(executeRunScript))
	e.Register(ActionSendSMS, ActionHandlerFunc(e.executeSendSMS))

	return e
}

// UpdateStageHandler builds the update_lifecycle_stage handler. It is
// registered from main after the member service exists, since the member
// service itself fires triggers into this engine.
func UpdateStageHandler(updater StageUpdater) ActionHandler {
	return ActionHandlerFunc(func(ctx context.Context, config map[string]interface{}, event TriggerEvent) error {
		return executeUpdateStage(ctx, updater, config, event)
	})
}

func (e *ActionExecutorImpl) Register(actionType ActionType, handler ActionHandler) {
	e.handlers[actionType] = handler
}

// Execute runs a single action under a bounded timeout. A timeout counts as
// an action failure, not a fatal engine error.
func (e *ActionExecutorImpl) Execute(ctx context.Context, action RuleAction, event TriggerEvent) error {
	handler, ok := e.handlers[action.Type]
	if !ok {
		return fmt.Errorf("unsupported action type: %s", action.Type)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if err := handler.Execute(ctx, action.Config, event); err != nil {
		return fmt.Errorf("action %s: %w", action.Type, err)
	}
	return nil
}

func executeSendEmail(ctx context.Context, sender EmailSender, config map[string]interface{}, event TriggerEvent) error {
	to, _ := config["to"].(string)
	subject, _ := config["subject"].(string)
	body, _ := config["body"].(string)

	if to == "" {
		// Fall back to the subject person's email from the payload
		if v, ok := lookupField(event.Payload, "email"); ok {
			to = fmt.Sprintf("%v", v)
		}
	}
	if to == "" {
		return fmt.Errorf("email recipient (to) is required")
	}

	subject = replacePlaceholders(subject, event.Payload)
	body = replacePlaceholders(body, event.Payload)

	return sender.SendEmail(ctx, []string{to}, subject, body)
}

func executeSendNotification(ctx context.Context, notifier Notifier, config map[string]interface{}, event TriggerEvent) error {
	userID, _ := config["user_id"].(string)
	title, _ := config["title"].(string)
	message, _ := config["message"].(string)

	if userID == "" {
		return fmt.Errorf("user_id is required for notification")
	}
	if title == "" {
		return fmt.Errorf("notification title is required")
	}

	title = replacePlaceholders(title, event.Payload)
	message = replacePlaceholders(message, event.Payload)

	return notifier.Notify(ctx, event.ChurchID, userID, title, message)
}

func executeUpdateStage(ctx context.Context, updater StageUpdater, config map[string]interface{}, event TriggerEvent) error {
	stage, _ := config["stage"].(string)
	if stage == "" {
		return fmt.Errorf("stage is required for update_lifecycle_stage action")
	}

	memberID, _ := config["member_id"].(string)
	if memberID == "" {
		memberID = event.SubjectID
	}
	if memberID == "" {
		return fmt.Errorf("no member to update: event has no subject")
	}

	return updater.UpdateLifecycleStage(ctx, event.ChurchID, memberID, stage)
}

func executeCreateFollowUp(ctx context.Context, repo FollowUpRepository, config map[string]interface{}, event TriggerEvent) error {
	subject, _ := config["subject"].(string)
	if subject == "" {
		return fmt.Errorf("task subject is required")
	}

	notes, _ := config["notes"].(string)
	assignedTo, _ := config["assigned_to"].(string)

	task := &FollowUpTask{
		Subject:    replacePlaceholders(subject, event.Payload),
		Notes:      replacePlaceholders(notes, event.Payload),
		AssignedTo: assignedTo,
		PersonID:   event.SubjectID,
	}

	churchOID, err := parseObjectID(event.ChurchID)
	if err != nil {
		return fmt.Errorf("invalid church id: %w", err)
	}
	task.ChurchID = churchOID

	if hours, ok := toFloat(config["due_in_hours"]); ok && hours > 0 {
		due := time.Now().Add(time.Duration(hours * float64(time.Hour)))
		task.DueAt = &due
	}

	return repo.Create(ctx, task)
}

func (e *ActionExecutorImpl) executeWebhook(ctx context.Context, config map[string]interface{}, event TriggerEvent) error {
	url, _ := config["url"].(string)
	if url == "" {
		return fmt.Errorf("webhook URL is required")
	}

	method, _ := config["method"].(string)
	if method == "" {
		method = "POST"
	}

	payload := map[string]interface{}{
		"event":      string(event.Type),
		"church_id":  event.ChurchID,
		"subject_id": event.SubjectID,
		"data":       event.Payload,
		"timestamp":  time.Now().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if headers, ok := config["headers"].(map[string]interface{}); ok {
		for k, v := range headers {
			req.Header.Set(k, fmt.Sprintf("%v", v))
		}
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned error status: %d", resp.StatusCode)
	}
	return nil
}

func executeRunScript(_ context.Context, config map[string]interface{}, event TriggerEvent) error {
	scriptContent, _ := config["script"].(string)
	if scriptContent == "" {
		return fmt.Errorf("script content is required")
	}

	script := tengo.NewScript([]byte(scriptContent))
	script.Add("trigger", string(event.Type))
	script.Add("church_id", event.ChurchID)
	script.Add("subject_id", event.SubjectID)
	script.Add("payload", event.Payload)

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("failed to compile script: %w", err)
	}
	if err := compiled.Run(); err != nil {
		return fmt.Errorf("failed to run script: %w", err)
	}
	return nil
}

func (e *ActionExecutorImpl) executeSendSMS(_ context.Context, config map[string]interface{}, event TriggerEvent) error {
	phone, _ := config["phone_number"].(string)
	message, _ := config["message"].(string)

	if phone == "" {
		return fmt.Errorf("phone_number is required for SMS")
	}
	if message == "" {
		return fmt.Errorf("SMS message is required")
	}

	// No SMS gateway configured yet; log the send so rules remain testable
	e.logger.Info("sending SMS",
		zap.String("phone", phone),
		zap.String("message", replacePlaceholders(message, event.Payload)))
	return nil
}

// replacePlaceholders substitutes {{field}} tokens with top-level payload values
func replacePlaceholders(text string, payload map[string]interface{}) string {
	for key, value := range payload {
		placeholder := fmt.Sprintf("{{%s}}", key)
		text = strings.ReplaceAll(text, placeholder, fmt.Sprintf("%v", value))
	}
	return text
}
