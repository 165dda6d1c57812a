package lineserial

import "sync"

// Observer receives one line per call
type Observer func(line string)

// ObserverToken identifies a subscription. The zero token is never handed out.
type ObserverToken uint64

type observerEntry struct {
	token    ObserverToken
	observer Observer
}

type observers struct {
	mutex sync.Mutex
	last  ObserverToken
	list  []observerEntry
}

func (o *observers) subscribe(observer Observer) ObserverToken {
	if observer == nil {
		return 0
	}

	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.last++
	o.list = append(o.list, observerEntry{token: o.last, observer: observer})
	return o.last
}

func (o *observers) unsubscribe(token ObserverToken) bool {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	for i, m := range o.list {
		if m.token == token {
			/* Copy so snapshots handed out earlier stay intact */
			list := make([]observerEntry, 0, len(o.list)-1)
			list = append(list, o.list[:i]...)
			o.list = append(list, o.list[i+1:]...)
			return true
		}
	}
	return false
}

// snapshot returns the registered observers in subscription order
func (o *observers) snapshot() []observerEntry {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	return o.list
}

func (o *observers) len() int {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	return len(o.list)
}
