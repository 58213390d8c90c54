package board

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/CrowderSoup/workbench/models"
	"github.com/google/uuid"
)

// MaxChatPerMember is how many messages are kept per team member.
const MaxChatPerMember = 50

const chatDocument = "chat.json"

// ChatLog stores conversations with team members in one shared document.
// Unlike the boards it reads and writes the store directly on each call.
type ChatLog struct {
	gateway *Gateway[models.ChatMessage]
	log     *slog.Logger
	now     func() time.Time

	mu sync.Mutex
}

func NewChatLog(store DocumentStore, opts ...Option) *ChatLog {
	o := buildOptions(opts)
	return &ChatLog{
		gateway: NewGateway[models.ChatMessage](store, chatDocument),
		log:     o.log.With("board", "chat"),
		now:     o.now,
	}
}

// List returns the messages of memberID, or every message when memberID is empty.
func (l *ChatLog) List(ctx context.Context, memberID string) ([]models.ChatMessage, error) {
	all, err := l.gateway.Load(ctx)
	if err != nil {
		return nil, err
	}
	if memberID == "" {
		return all, nil
	}
	return models.Filter(all, func(m models.ChatMessage) bool { return m.MemberID == memberID }), nil
}

// Append stores msg and trims the member's history to MaxChatPerMember.
func (l *ChatLog) Append(ctx context.Context, msg models.ChatMessage) (models.ChatMessage, error) {
	if strings.TrimSpace(msg.MemberID) == "" || strings.TrimSpace(msg.Content) == "" {
		return models.ChatMessage{}, fmt.Errorf("%w: memberId and content are required", ErrInvalidRecord)
	}
	if msg.Role == "" {
		msg.Role = "user"
	}
	now := l.now()
	if msg.Timestamp == 0 {
		msg.Timestamp = now.UnixMilli()
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.gateway.Load(ctx)
	if err != nil {
		return models.ChatMessage{}, err
	}
	all = append(all, msg)

	mine := models.Filter(all, func(m models.ChatMessage) bool { return m.MemberID == msg.MemberID })
	if len(mine) > MaxChatPerMember {
		others := models.Filter(all, func(m models.ChatMessage) bool { return m.MemberID != msg.MemberID })
		all = append(others, mine[len(mine)-MaxChatPerMember:]...)
	}

	if err := l.gateway.Save(ctx, all); err != nil {
		return models.ChatMessage{}, err
	}
	return msg, nil
}

// Clear drops the history of memberID, or all history when memberID is empty.
func (l *ChatLog) Clear(ctx context.Context, memberID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.gateway.Load(ctx)
	if err != nil {
		return err
	}

	kept := []models.ChatMessage{}
	if memberID != "" {
		kept = models.Filter(all, func(m models.ChatMessage) bool { return m.MemberID != memberID })
	}

	l.log.Info("clearing chat history", "member", memberID, "removed", len(all)-len(kept))
	return l.gateway.Save(ctx, kept)
}
