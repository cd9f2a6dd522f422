package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register MIDI driver
)

// DeviceEventType distinguishes connects from disconnects.
type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceEvent is emitted when controllers connect or disconnect.
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

// DeviceManager polls for pad controllers appearing and disappearing.
type DeviceManager struct {
	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
	match       func(portName string) bool
}

// NewDeviceManager creates a manager matching Launchpads, or - when
// portName is non-empty - only the named port.
func NewDeviceManager(portName string) *DeviceManager {
	match := isLaunchpad
	if portName != "" {
		want := strings.ToLower(portName)
		match = func(name string) bool {
			return strings.ToLower(name) == want
		}
	}
	return &DeviceManager{
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
		match:       match,
	}
}

// Events returns the connect/disconnect stream.
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Run polls until the context is done (blocking - run in a goroutine).
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	// Fetch ports with a timeout; CoreMIDI can hang.
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}
	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	var inPorts []drivers.In
	var outPorts []drivers.Out
	select {
	case result := <-ch:
		inPorts = result.inPorts
		outPorts = result.outPorts
	case <-time.After(3 * time.Second):
		return
	}

	seenIDs := make(map[string]bool)

	for i, inPort := range inPorts {
		name := strings.ToLower(inPort.String())
		if !dm.match(inPort.String()) {
			continue
		}
		id := inPort.String()
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		var outPort drivers.Out
		for j, op := range outPorts {
			if strings.ToLower(op.String()) == name {
				outPort = outPorts[j]
				break
			}
		}

		lp, err := NewLaunchpadController(id, inPorts[i], outPort)
		if err != nil {
			continue
		}

		dm.mu.Lock()
		dm.controllers[id] = lp
		dm.mu.Unlock()

		dm.events <- DeviceEvent{Type: DeviceConnected, Controller: lp, ID: id}
	}

	dm.mu.Lock()
	var toRemove []string
	for id := range dm.controllers {
		if !seenIDs[id] {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		c := dm.controllers[id]
		c.Close()
		delete(dm.controllers, id)
		dm.events <- DeviceEvent{Type: DeviceDisconnected, ID: id}
	}
	dm.mu.Unlock()
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}

func isLaunchpad(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "launchpad") && strings.Contains(name, "midi")
}
