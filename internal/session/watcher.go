package session

import (
	"context"
	"sync"
)

// 解決中はPending。管理者判定に失敗したときはErrが入る
type State struct {
	Pending bool
	Session *Session
	IsAdmin bool
	Err     error
}

func (s State) UserID() string {
	if s.Session == nil {
		return ""
	}
	return s.Session.UserID
}

// sessionの変化を見て管理者フラグを解決し直す。
// resolverがnilなら管理者判定はしない
type Watcher struct {
	provider Provider
	resolver *Resolver
	onChange func(State)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	state       State
	gen         uint64
	closed      bool
	unsubscribe func()
}

func NewWatcher(p Provider, r *Resolver, onChange func(State)) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		provider: p,
		resolver: r,
		onChange: onChange,
		ctx:      ctx,
		cancel:   cancel,
		state:    State{Pending: true},
	}
}

// 最初の解決が終わるまで待ってから購読を始める
func (w *Watcher) Start(ctx context.Context) State {
	sess, err := w.provider.Current(ctx)
	if err != nil {
		st := State{Err: err}
		w.mu.Lock()
		w.state = st
		w.mu.Unlock()
		return st
	}

	w.mu.Lock()
	w.gen++
	gen := w.gen
	w.state = State{Pending: true, Session: sess}
	w.mu.Unlock()

	st := w.resolve(ctx, gen, sess)

	unsub := w.provider.Subscribe(w.handle)
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		unsub()
		return st
	}
	w.unsubscribe = unsub
	w.mu.Unlock()
	return st
}

func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Watcher) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	unsub := w.unsubscribe
	w.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	w.cancel()
	w.wg.Wait()
}

func (w *Watcher) handle(_ Event, sess *Session) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	//同じユーザーのtoken更新ならsessionだけ差し替える
	if !w.state.Pending && w.state.Err == nil && w.state.UserID() == userIDOf(sess) {
		w.state.Session = sess
		st := w.state
		w.mu.Unlock()
		w.notify(st)
		return
	}
	w.gen++
	gen := w.gen
	w.state = State{Pending: true, Session: sess}
	st := w.state
	w.wg.Add(1)
	w.mu.Unlock()

	w.notify(st)
	go func() {
		defer w.wg.Done()
		w.resolve(w.ctx, gen, sess)
	}()
}

func (w *Watcher) resolve(ctx context.Context, gen uint64, sess *Session) State {
	st := State{Session: sess}
	if sess != nil && w.resolver != nil {
		st.IsAdmin, st.Err = w.resolver.IsAdmin(ctx, sess.UserID)
		if st.Err != nil {
			st.IsAdmin = false
		}
	}

	w.mu.Lock()
	//古い解決結果は捨てる
	if gen != w.gen {
		cur := w.state
		w.mu.Unlock()
		return cur
	}
	w.state = st
	w.mu.Unlock()

	w.notify(st)
	return st
}

func (w *Watcher) notify(st State) {
	if w.onChange != nil {
		w.onChange(st)
	}
}

func userIDOf(s *Session) string {
	if s == nil {
		return ""
	}
	return s.UserID
}
