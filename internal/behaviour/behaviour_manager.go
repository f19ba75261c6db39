package behaviour

// Behaviour is driven once per frame by a Manager. Start runs before the
// first Update or UpdateFixed.
type Behaviour interface {
	Start()
	Update()
	UpdateFixed()
}

type behaviourWrapper struct {
	behaviour Behaviour
	started   bool
}

type Manager struct {
	behaviours []behaviourWrapper
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) Add(b Behaviour) {
	m.behaviours = append(m.behaviours, behaviourWrapper{behaviour: b})
}

// Remove drops b. Order of the remaining behaviours is preserved.
func (m *Manager) Remove(b Behaviour) {
	for i := range m.behaviours {
		if m.behaviours[i].behaviour == b {
			m.behaviours = append(m.behaviours[:i], m.behaviours[i+1:]...)
			return
		}
	}
}

// Clear removes all behaviours from the manager
func (m *Manager) Clear() {
	m.behaviours = m.behaviours[:0]
}

func (m *Manager) Len() int {
	return len(m.behaviours)
}

func (m *Manager) start(i int) {
	if !m.behaviours[i].started {
		m.behaviours[i].behaviour.Start()
		m.behaviours[i].started = true
	}
}

func (m *Manager) UpdateAll() {
	for i := range m.behaviours {
		m.start(i)
		m.behaviours[i].behaviour.Update()
	}
}

func (m *Manager) UpdateAllFixed() {
	for i := range m.behaviours {
		m.start(i)
		m.behaviours[i].behaviour.UpdateFixed()
	}
}

// Func adapts a per-frame function to a Behaviour. Funcs are not comparable,
// so a Func cannot be passed to Remove.
type Func func()

func (f Func) Start()       {}
func (f Func) Update()      { f() }
func (f Func) UpdateFixed() {}
