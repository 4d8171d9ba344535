// Package session holds per-operator register state between requests: the cart being
// built, the tender keypad and the split count.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeMC777/qsr-pos/internal/cart"
	"github.com/MikeMC777/qsr-pos/internal/checkout"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID       string
	OpenedAt time.Time

	mu         sync.Mutex
	cart       *cart.Cart
	tender     *checkout.Tender
	splitCount int
	note       string
}

// State is what a handler may touch while it holds the session.
type State struct {
	Cart       *cart.Cart
	Tender     *checkout.Tender
	SplitCount int
	Note       string
}

// Do runs fn with exclusive access to the session state. Changes fn makes to
// SplitCount and Note are kept; SplitCount never drops below 1.
func (s *Session) Do(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &State{Cart: s.cart, Tender: s.tender, SplitCount: s.splitCount, Note: s.note}
	err := fn(st)
	if st.SplitCount < 1 {
		st.SplitCount = 1
	}
	s.splitCount = st.SplitCount
	s.note = st.Note
	return err
}

// Store keeps open sessions in memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{sessions: map[string]*Session{}, now: time.Now}
}

func (s *Store) Open() *Session {
	sess := &Session{
		ID:         uuid.NewString(),
		OpenedAt:   s.now(),
		cart:       cart.New(),
		tender:     checkout.NewTender(),
		splitCount: 1,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Close drops the session and everything it held.
func (s *Store) Close(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
