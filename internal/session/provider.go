package session

import (
	"context"
	"sync"
)

type Event string

const (
	EventInitialSession Event = "INITIAL_SESSION"
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
)

// ログアウト時はsessionがnil
type Listener func(ev Event, s *Session)

type Provider interface {
	Current(ctx context.Context) (*Session, error)
	//戻り値を呼ぶと購読解除
	Subscribe(l Listener) (unsubscribe func())
}

// 1リクエスト分。リクエスト中にsessionは変わらない
type RequestProvider struct {
	session *Session
}

func NewRequestProvider(s *Session) *RequestProvider {
	return &RequestProvider{session: s}
}

func (p *RequestProvider) Current(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.session, nil
}

func (p *RequestProvider) Subscribe(Listener) func() { return func() {} }

// 長く生きるクライアント用。Publishで購読者に通知する
type Stream struct {
	mu        sync.Mutex
	current   *Session
	listeners map[int]Listener
	next      int
}

func NewStream(initial *Session) *Stream {
	return &Stream{current: initial, listeners: map[int]Listener{}}
}

func (s *Stream) Current(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, nil
}

func (s *Stream) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Stream) Publish(ev Event, sess *Session) {
	s.mu.Lock()
	s.current = sess
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.mu.Unlock()

	for _, l := range ls {
		l(ev, sess)
	}
}
