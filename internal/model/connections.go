package model

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/rs/zerolog/log"
)

// outboundBuffer is how many messages may wait for a slow client before it is
// dropped.
const outboundBuffer = 64

// Conn is the write side of a client socket. Only the connection's writer
// goroutine calls it.
type Conn interface {
	WriteJSON(v interface{}) error
}

// observer owns the single writer of one socket.
type observer struct {
	conn   Conn
	out    chan ws.Message
	done   chan struct{}
	closed bool // out is closed, guarded by GameConnections.mu
}

func newObserver(conn Conn) *observer {
	o := &observer{
		conn: conn,
		out:  make(chan ws.Message, outboundBuffer),
		done: make(chan struct{}),
	}
	go o.writeLoop()
	return o
}

func (o *observer) writeLoop() {
	defer close(o.done)
	for msg := range o.out {
		if err := o.conn.WriteJSON(msg); err != nil {
			log.Debug().Err(err).Msg("socket write failed")
			// keep draining so senders never block
			for range o.out {
			}
			return
		}
	}
}

// GameConnections holds the sockets observing one game, keyed by player id.
type GameConnections struct {
	observers map[string]*observer
	mu        sync.Mutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		observers: make(map[string]*observer),
	}
}

func (gc *GameConnections) add(playerID string, conn Conn) (*observer, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if _, exists := gc.observers[playerID]; exists {
		return nil, false
	}
	o := newObserver(conn)
	gc.observers[playerID] = o
	return o, true
}

// remove detaches playerID's socket and returns its observer, already closed
// for sending.
func (gc *GameConnections) remove(playerID string) *observer {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	o, exists := gc.observers[playerID]
	if !exists {
		return nil
	}
	delete(gc.observers, playerID)
	if !o.closed {
		o.closed = true
		close(o.out)
	}
	return o
}

// enqueue queues msg for playerID. A client whose queue is full gets no
// further messages.
func (gc *GameConnections) enqueue(playerID string, msg ws.Message) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	o, exists := gc.observers[playerID]
	if !exists || o.closed {
		return false
	}
	select {
	case o.out <- msg:
		return true
	default:
		// stays registered until the handler unregisters and waits for it
		log.Warn().Str("player_id", playerID).Msg("client too slow, closing its queue")
		o.closed = true
		close(o.out)
		return false
	}
}

func (gc *GameConnections) enqueueAll(msg ws.Message) {
	gc.mu.Lock()
	ids := make([]string, 0, len(gc.observers))
	for playerID := range gc.observers {
		ids = append(ids, playerID)
	}
	gc.mu.Unlock()

	for _, playerID := range ids {
		gc.enqueue(playerID, msg)
	}
}

// RegisterConnection attaches conn as playerID's observer and queues the
// current state for it. A second socket for the same player is refused with
// ErrAlreadyConnected.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debug().Str("game_id", g.ID).Str("player_id", playerID).Msg("registering connection")

	if !g.isPlayerInGame(playerID) && !g.canSpectate() {
		return fmt.Errorf("%w: not authorized to join this game", ErrNotInGame)
	}
	if _, ok := g.connections.add(playerID, conn); !ok {
		return ErrAlreadyConnected
	}
	msg, err := stateMessage(g.getState())
	if err != nil {
		return err
	}
	g.connections.enqueue(playerID, msg)
	return nil
}

// UnregisterConnection detaches playerID's socket and waits until everything
// already queued for it was written.
func (g *Game) UnregisterConnection(playerID string) {
	o := g.connections.remove(playerID)
	if o == nil {
		return
	}
	log.Debug().Str("game_id", g.ID).Str("player_id", playerID).Msg("unregistering connection")
	<-o.done
}

// Send queues msg for playerID's socket behind any pending state updates.
func (g *Game) Send(playerID string, msg ws.Message) error {
	if !g.connections.enqueue(playerID, msg) {
		return fmt.Errorf("%w: no open connection", ErrNotInGame)
	}
	return nil
}

// broadcastState queues state for every observer. Callers hold g.mu, so
// observers see states in the order they happened.
func (g *Game) broadcastState(state GameState) {
	msg, err := stateMessage(state)
	if err != nil {
		log.Error().Err(err).Str("game_id", g.ID).Msg("failed to marshal state")
		return
	}
	g.connections.enqueueAll(msg)
}

func stateMessage(state GameState) (ws.Message, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return ws.Message{}, err
	}
	return ws.Message{Type: ws.MessageTypeGameState, Payload: payload}, nil
}
