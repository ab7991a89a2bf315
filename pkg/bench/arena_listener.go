package bench

// Fans the callbacks out to several listeners, in order
type ArenaListener struct {
	listeners []ListenerLike
}

func NewArenaListener(listeners ...ListenerLike) *ArenaListener {
	al := &ArenaListener{listeners: make([]ListenerLike, 0, len(listeners))}
	for _, l := range listeners {
		if l != nil {
			al.listeners = append(al.listeners, l)
		}
	}
	return al
}

func (al *ArenaListener) Add(l ListenerLike) *ArenaListener {
	if l != nil {
		al.listeners = append(al.listeners, l)
	}
	return al
}

func (al *ArenaListener) OnStart(limits Limits) {
	for _, l := range al.listeners {
		l.OnStart(limits)
	}
}

func (al *ArenaListener) OnFinishedGame(info GameInfo, tally Tally) {
	for _, l := range al.listeners {
		l.OnFinishedGame(info, tally)
	}
}

func (al *ArenaListener) OnEnd(summary Summary) {
	for _, l := range al.listeners {
		l.OnEnd(summary)
	}
}
