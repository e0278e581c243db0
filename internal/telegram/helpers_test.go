package telegram

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/kpd_assistant/internal/answer"
	"go.uber.org/zap"
)

func nopLogger() *logger.ZapLogger {
	return logger.NewZapLogger(zap.NewNop().Sugar())
}

type sentReply struct {
	ChatID   int64
	ReplyTo  int
	Text     string
	Markdown bool
}

type fakeReplier struct {
	mu      sync.Mutex
	replies []sentReply
	failMD  bool

	// holdPlain задерживает отправку текстов без разметки, как медленный Telegram.
	holdPlain chan struct{}
}

func (f *fakeReplier) Reply(_ context.Context, chatID int64, replyTo int, text string, markdown bool) error {
	if !markdown && f.holdPlain != nil {
		<-f.holdPlain
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if markdown && f.failMD {
		return errors.New("can't parse entities")
	}
	f.replies = append(f.replies, sentReply{ChatID: chatID, ReplyTo: replyTo, Text: text, Markdown: markdown})
	return nil
}

func (f *fakeReplier) all() []sentReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentReply(nil), f.replies...)
}

// blockingAnswerer держит каждый вызов, пока тест не закроет release.
type blockingAnswerer struct {
	calls   atomic.Int32
	started chan string
	release chan struct{}
	res     answer.Resolved
	err     error
	panics  bool
}

func newBlockingAnswerer(res answer.Resolved) *blockingAnswerer {
	return &blockingAnswerer{
		started: make(chan string, 16),
		release: make(chan struct{}),
		res:     res,
	}
}

func (a *blockingAnswerer) Answer(_ context.Context, question string) (answer.Resolved, error) {
	a.calls.Add(1)
	a.started <- question
	<-a.release
	if a.panics {
		panic("resolver exploded")
	}
	return a.res, a.err
}

type fakeNotifier struct {
	mu   sync.Mutex
	errs []error
}

func (f *fakeNotifier) Notify(_ context.Context, _ string, err error, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, err)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.errs)
}
