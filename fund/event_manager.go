package fund

import (
	"sync"

	"github.com/inconshreveable/log15"
	"github.com/olebedev/emitter"

	"github.com/vitelabs/go-crowdfund/common"
)

const allEvents = "*"

type Listener func(Event)

type subscription struct {
	topic string
	ch    <-chan emitter.Event
}

// EventManager fans notifications out to registered listeners. Listeners run
// synchronously on the publishing goroutine; a panicking listener is logged
// and does not affect other listeners. A listener must not publish, register
// or call into a project from inside its callback.
type EventManager struct {
	emitter *emitter.Emitter

	maxHandlerId uint32
	subs         map[uint32]subscription
	mu           sync.Mutex

	log log15.Logger
}

func NewEventManager() *EventManager {
	return &EventManager{
		emitter: emitter.New(0),
		subs:    make(map[uint32]subscription),
		log:     log15.New("module", "fund/events"),
	}
}

// Register subscribes listener to kind. An empty kind subscribes to every
// event. The returned id is used to UnRegister.
func (em *EventManager) Register(kind EventKind, listener Listener) uint32 {
	topic := string(kind)
	if topic == "" {
		topic = allEvents
	}

	em.mu.Lock()
	defer em.mu.Unlock()

	em.maxHandlerId++
	id := em.maxHandlerId
	ch := em.emitter.On(topic, func(ev *emitter.Event) {
		if len(ev.Args) == 0 {
			return
		}
		e, ok := ev.Args[0].(Event)
		if !ok {
			return
		}
		if err := common.Recover(func() { listener(e) }); err != nil {
			em.log.Error("listener panicked", "id", id, "kind", e.Kind(), "err", err)
		}
	}, emitter.Void)
	em.subs[id] = subscription{topic: topic, ch: ch}
	return id
}

func (em *EventManager) UnRegister(id uint32) {
	em.mu.Lock()
	defer em.mu.Unlock()

	sub, ok := em.subs[id]
	if !ok {
		return
	}
	delete(em.subs, id)
	em.emitter.Off(sub.topic, sub.ch)
}

// Publish delivers events in order and returns once every listener has run.
// Publishing on a nil manager is a no-op.
func (em *EventManager) Publish(events ...Event) {
	if em == nil {
		return
	}
	for _, e := range events {
		<-em.emitter.Emit(string(e.Kind()), e)
	}
}
