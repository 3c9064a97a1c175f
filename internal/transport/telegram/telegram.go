// Package telegram implements the transport.Adapter on Telegram Bot API long
// polling (telebot v4).
//
// Recipient resolution: Telegram bots cannot open a chat with a user, so the
// adapter registers every user who messages the bot (/start) in the subscriber
// registry and resolves stored handles against it. A reminder for a handle
// that never started the bot fails resolution and is retried on later cycles.
package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	tele "gopkg.in/telebot.v4"

	"farmbot/internal/storage"
	kit "farmbot/internal/transport"
	logx "farmbot/pkg/logx"
	"farmbot/pkg/tgui"
)

type Config struct {
	Token       string
	PollTimeout time.Duration
}

type Adapter struct {
	cfg Config
	log logx.Logger

	bot   *tele.Bot
	store storage.Store // nil means memory-only registry

	runMu     sync.Mutex
	running   bool
	runCancel context.CancelFunc
	runWG     sync.WaitGroup

	// subscriber registry cache: normalized handle -> chat ID
	regMu sync.RWMutex
	reg   map[string]int64
}

func New(cfg Config, store storage.Store, log logx.Logger) (*Adapter, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	timeout := cfg.PollTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: timeout},
	})
	if err != nil {
		return nil, err
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Adapter{cfg: cfg, log: log, bot: b, store: store, reg: map[string]int64{}}, nil
}

func (a *Adapter) Start(ctx context.Context) error {
	a.runMu.Lock()
	if a.running {
		a.runMu.Unlock()
		return nil
	}
	a.running = true
	rctx, cancel := context.WithCancel(ctx)
	a.runCancel = cancel
	a.runWG.Add(1)
	a.runMu.Unlock()

	a.loadRegistry(rctx)

	a.bot.Handle("/start", func(c tele.Context) error {
		a.register(rctx, c.Message())
		return c.Send("You're registered. Farming reminders will arrive here.")
	})
	a.bot.Handle(tele.OnText, func(c tele.Context) error {
		// Any message refreshes the registration; no command surface beyond that.
		a.register(rctx, c.Message())
		return nil
	})

	go func() {
		defer a.runWG.Done()
		go func() {
			<-rctx.Done()
			a.bot.Stop()
		}()
		a.log.Info("polling started")
		a.bot.Start() // blocks until Stop() called
	}()

	return nil
}

func (a *Adapter) Stop(ctx context.Context) error {
	// Best-effort graceful stop. Never block shutdown for too long on the
	// Telegram long-poll.
	a.runMu.Lock()
	cancel := a.runCancel
	a.runCancel = nil
	wasRunning := a.running
	a.running = false
	a.runMu.Unlock()

	if !wasRunning {
		return nil
	}
	if cancel != nil {
		cancel()
	}
	go a.bot.Stop()

	done := make(chan struct{})
	go func() {
		a.runWG.Wait()
		close(done)
	}()

	grace := 2 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		if rem := time.Until(dl); rem > 0 && rem < grace {
			grace = rem
		}
	}
	t := time.NewTimer(grace)
	defer t.Stop()

	select {
	case <-done:
		a.log.Info("polling stopped")
		return nil
	case <-ctx.Done():
		a.log.Warn("telegram stop cancelled", logx.Err(ctx.Err()))
		return ctx.Err()
	case <-t.C:
		a.log.Warn("telegram stop grace elapsed; continuing shutdown")
		return nil
	}
}

func (a *Adapter) loadRegistry(ctx context.Context) {
	if a.store == nil {
		return
	}
	subs, err := a.store.ListSubscribers(ctx)
	if err != nil {
		a.log.Warn("subscriber registry load failed", logx.Err(err))
		return
	}
	a.regMu.Lock()
	for _, s := range subs {
		a.reg[s.Handle] = s.ChatID
	}
	a.regMu.Unlock()
	a.log.Info("subscriber registry loaded", logx.Int("count", len(subs)))
}

func (a *Adapter) register(ctx context.Context, m *tele.Message) {
	if m == nil || m.Sender == nil || m.Sender.Username == "" {
		return
	}
	handle := storage.NormalizeHandle(m.Sender.Username)
	chatID := m.Chat.ID

	a.regMu.Lock()
	known := a.reg[handle] == chatID
	a.reg[handle] = chatID
	a.regMu.Unlock()
	if known {
		return
	}

	a.log.Info("subscriber registered", logx.String("handle", handle), logx.Int64("chat_id", chatID))
	if a.store != nil {
		if err := a.store.PutSubscriber(ctx, storage.Subscriber{Handle: handle, ChatID: chatID, SeenAt: time.Now()}); err != nil {
			a.log.Warn("subscriber persist failed", logx.String("handle", handle), logx.Err(err))
		}
	}
}

func (a *Adapter) ResolveRecipient(ctx context.Context, handle string) (kit.ChatTarget, error) {
	h := storage.NormalizeHandle(handle)

	a.regMu.RLock()
	chatID, ok := a.reg[h]
	a.regMu.RUnlock()
	if ok {
		return kit.ChatTarget{ChatID: chatID}, nil
	}

	// Cache miss: fall through to the store (another instance or a past run
	// may have registered the handle).
	if a.store != nil {
		sub, found, err := a.store.GetSubscriber(ctx, h)
		if err != nil {
			return kit.ChatTarget{}, err
		}
		if found {
			a.regMu.Lock()
			a.reg[h] = sub.ChatID
			a.regMu.Unlock()
			return kit.ChatTarget{ChatID: sub.ChatID}, nil
		}
	}
	return kit.ChatTarget{}, kit.ErrRecipientNotFound
}

func (a *Adapter) SendText(ctx context.Context, to kit.ChatTarget, text string, opt *kit.SendOptions) (kit.MessageRef, error) {
	if opt == nil {
		opt = &kit.SendOptions{}
	}
	chat := &tele.Chat{ID: to.ChatID}
	sendOpt := &tele.SendOptions{
		ParseMode:             opt.ParseMode,
		DisableWebPagePreview: opt.DisablePreview,
		ThreadID:              to.ThreadID,
	}
	msg, err := a.bot.Send(chat, text, sendOpt)
	if err != nil {
		return kit.MessageRef{}, err
	}
	return kit.MessageRef{ChatID: to.ChatID, ThreadID: to.ThreadID, MessageID: msg.ID}, nil
}

// SendPayload renders the payload as a Telegram HTML message. When a thumbnail
// is present and the rendered text fits a media caption, it is sent as a photo
// caption; otherwise the thumbnail is dropped in favor of the full text.
func (a *Adapter) SendPayload(ctx context.Context, to kit.ChatTarget, p kit.Payload) (kit.MessageRef, error) {
	text := RenderPayload(p)
	chat := &tele.Chat{ID: to.ChatID}
	sendOpt := &tele.SendOptions{ParseMode: tele.ModeHTML, ThreadID: to.ThreadID}

	if p.Thumbnail != "" && utf8.RuneCountInString(text) <= tgui.MaxCaptionLen {
		photo := &tele.Photo{File: tele.FromURL(p.Thumbnail), Caption: text}
		msg, err := a.bot.Send(chat, photo, sendOpt)
		if err == nil {
			return kit.MessageRef{ChatID: to.ChatID, ThreadID: to.ThreadID, MessageID: msg.ID}, nil
		}
		// A dead image URL should not lose the reminder; retry as plain text.
		a.log.Warn("photo send failed; falling back to text", logx.Int64("chat_id", to.ChatID), logx.Err(err))
	}

	msg, err := a.bot.Send(chat, text, sendOpt)
	if err != nil {
		return kit.MessageRef{}, err
	}
	return kit.MessageRef{ChatID: to.ChatID, ThreadID: to.ThreadID, MessageID: msg.ID}, nil
}

// RenderPayload produces the HTML body for a payload. The Inline layout hint
// is ignored: Telegram has no field columns.
func RenderPayload(p kit.Payload) string {
	parts := make([]tgui.H, 0, len(p.Fields)+2)
	parts = append(parts, tgui.B(p.Title))
	if p.Description != "" {
		parts = append(parts, tgui.I(p.Description)+"\n")
	}
	for _, f := range p.Fields {
		parts = append(parts, tgui.B(f.Label+":")+" "+tgui.Esc(f.Value))
	}
	return tgui.JoinH("\n", parts...).String()
}
