package service

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Sender delivers an outbound message to a chat.
type Sender interface {
	Send(ctx context.Context, chatIdentifier, text string, isGroup bool) error
}

// ScriptSender sends messages through Messages.app via osascript.
type ScriptSender struct{}

var _ Sender = ScriptSender{}

func (ScriptSender) Send(ctx context.Context, chatIdentifier, text string, isGroup bool) error {
	script := buildSendScript(chatIdentifier, text, isGroup)
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("osascript: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func buildSendScript(chatIdentifier, text string, isGroup bool) string {
	// Messages.app chat ids carry a service prefix; "any" matches whichever
	// service the chat lives on.
	var fullChatID string
	if isGroup {
		fullChatID = "any;+;" + chatIdentifier
	} else {
		fullChatID = "any;-;" + chatIdentifier
	}
	return fmt.Sprintf(`tell application "Messages"
    set targetChat to chat id "%s"
    send "%s" to targetChat
end tell`, fullChatID, escapeScriptText(text))
}

// escapeScriptText escapes backslashes and double quotes for embedding in an
// AppleScript string literal.
func escapeScriptText(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	return strings.ReplaceAll(text, `"`, `\"`)
}
