package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/kpd_assistant/internal/answer"
	"github.com/Vovarama1992/kpd_assistant/internal/error_notificator"
	"github.com/Vovarama1992/kpd_assistant/internal/format"
)

type Answerer interface {
	Answer(ctx context.Context, question string) (answer.Resolved, error)
}

type Event struct {
	UserID    int64
	ChatID    int64
	MessageID int
	Text      string
}

type userState int

const (
	stateIdle userState = iota
	stateInFlight
)

type session struct {
	state     userState
	startedAt time.Time
}

// Dispatcher пропускает не больше одного запроса на пользователя.
// Пока запрос в работе, новые сообщения получают отказ и не ставятся в очередь.
type Dispatcher struct {
	answerer Answerer
	replier  Replier
	notifier error_notificator.Notificator
	log      *logger.ZapLogger

	mu       sync.Mutex
	sessions map[int64]*session
	wg       sync.WaitGroup
}

func NewDispatcher(
	answerer Answerer,
	replier Replier,
	notifier error_notificator.Notificator,
	log *logger.ZapLogger,
) *Dispatcher {
	return &Dispatcher{
		answerer: answerer,
		replier:  replier,
		notifier: notifier,
		log:      log,
		sessions: make(map[int64]*session),
	}
}

// Submit возвращает false, если у пользователя уже есть запрос в работе.
// Не блокируется на сети: и ответ, и отказ отправляются в отдельной горутине.
func (d *Dispatcher) Submit(ctx context.Context, ev Event) bool {
	ctx = context.WithoutCancel(ctx)

	if !d.acquire(ev.UserID) {
		d.log.Log(logger.LogEntry{
			Level:   "info",
			Message: fmt.Sprintf("[dispatcher] busy tgID=%d", ev.UserID),
			Service: "bot",
		})
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.reply(ctx, ev, MsgBusy, false)
		}()
		return false
	}

	d.wg.Add(1)
	go d.run(ctx, ev)
	return true
}

// Wait ждёт завершения всех запущенных запросов.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) InFlight(userID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.sessions[userID]
	return ok && s.state == stateInFlight
}

func (d *Dispatcher) acquire(userID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.sessions[userID]
	if !ok {
		s = &session{}
		d.sessions[userID] = s
	}
	if s.state == stateInFlight {
		return false
	}

	s.state = stateInFlight
	s.startedAt = time.Now()
	return true
}

func (d *Dispatcher) release(userID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.sessions[userID]
	d.log.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("[dispatcher] done tgID=%d in %.1fs", userID, time.Since(s.startedAt).Seconds()),
		Service: "bot",
	})
	s.state = stateIdle
}

func (d *Dispatcher) run(ctx context.Context, ev Event) {
	defer d.wg.Done()
	defer d.release(ev.UserID)
	defer func() {
		if r := recover(); r != nil {
			d.fail(ctx, ev, fmt.Errorf("panic: %v", r))
		}
	}()

	res, err := d.answerer.Answer(ctx, ev.Text)
	if err != nil {
		d.fail(ctx, ev, err)
		return
	}

	if err := d.replier.Reply(ctx, ev.ChatID, ev.MessageID, format.Markdown(res), true); err != nil {
		d.fail(ctx, ev, fmt.Errorf("send answer: %w", err))
	}
}

func (d *Dispatcher) fail(ctx context.Context, ev Event, err error) {
	_ = d.notifier.Notify(
		ctx,
		"bot",
		err,
		fmt.Sprintf("Пользователь: %d\nТекст: %q", ev.UserID, ev.Text),
	)
	d.reply(ctx, ev, MsgError, false)
}

func (d *Dispatcher) reply(ctx context.Context, ev Event, text string, markdown bool) {
	if err := d.replier.Reply(ctx, ev.ChatID, ev.MessageID, text, markdown); err != nil {
		d.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: fmt.Sprintf("[dispatcher] reply fail tgID=%d", ev.UserID),
			Service: "bot",
			Error:   err,
		})
	}
}
