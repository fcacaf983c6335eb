package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"fretnote/debug"
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// excludedPatterns are virtual/system ports never auto-connected
var excludedPatterns = []string{"midi through", "through port", "dummy", "rtmidi"}

// PortFilter decides whether a detected input port may be connected
type PortFilter func(portName string) bool

// DeviceManager handles hot-plug detection of MIDI controllers
type DeviceManager struct {
	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration

	allow           PortFilter
	keyboardChannel int
	ignoreOutputs   map[string]bool
}

// NewDeviceManager creates a new device manager
func NewDeviceManager() *DeviceManager {
	return &DeviceManager{
		controllers:   make(map[string]Controller),
		events:        make(chan DeviceEvent, 16),
		pollRate:      time.Second,
		ignoreOutputs: make(map[string]bool),
	}
}

// SetFilter restricts which ports are connected
func (dm *DeviceManager) SetFilter(f PortFilter) {
	dm.mu.Lock()
	dm.allow = f
	dm.mu.Unlock()
}

// SetKeyboardChannel sets the channel filter for keyboards (0 = all)
func (dm *DeviceManager) SetKeyboardChannel(ch int) {
	dm.mu.Lock()
	dm.keyboardChannel = ch
	dm.mu.Unlock()
}

// IgnorePort keeps a port from being treated as a controller, e.g. the
// synth that receives feedback tones loops its output back in
func (dm *DeviceManager) IgnorePort(name string) {
	dm.mu.Lock()
	dm.ignoreOutputs[strings.ToLower(name)] = true
	dm.mu.Unlock()
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
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

// ListPorts returns input and output port names, or ok=false if the MIDI
// backend did not answer within timeout (CoreMIDI can hang)
func ListPorts(timeout time.Duration) (ins, outs []string, ok bool) {
	inPorts, outPorts, ok := getPorts(timeout)
	for _, p := range inPorts {
		ins = append(ins, p.String())
	}
	for _, p := range outPorts {
		outs = append(outs, p.String())
	}
	return ins, outs, ok
}

func getPorts(timeout time.Duration) ([]drivers.In, []drivers.Out, bool) {
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		return r.inPorts, r.outPorts, true
	case <-time.After(timeout):
		return nil, nil, false
	}
}

func (dm *DeviceManager) scan() {
	inPorts, outPorts, ok := getPorts(3 * time.Second)
	if !ok {
		// User needs to run: sudo killall coreaudiod midiserver
		debug.Log("midi", "port scan timed out")
		return
	}

	seenIDs := make(map[string]bool)

	for _, inPort := range inPorts {
		id := inPort.String()
		kind := dm.classify(id)
		if kind == ControllerUnknown {
			continue
		}
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		channel := dm.keyboardChannel
		dm.mu.RUnlock()
		if exists {
			continue
		}

		var (
			ctrl Controller
			err  error
		)
		if kind == ControllerLaunchpad {
			ctrl, err = NewLaunchpadController(id, inPort, matchOutput(id, outPorts))
		} else {
			ctrl, err = NewKeyboardController(id, inPort, channel)
		}
		if err != nil {
			debug.Log("midi", "connect %s failed: %v", id, err)
			continue
		}

		dm.mu.Lock()
		dm.controllers[id] = ctrl
		dm.mu.Unlock()

		debug.Log("midi", "connected %s (%s)", id, kind)
		dm.events <- DeviceEvent{Type: DeviceConnected, Controller: ctrl, ID: id}
	}

	// Check for disconnects
	dm.mu.Lock()
	var toRemove []string
	for id := range dm.controllers {
		if !seenIDs[id] {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		dm.controllers[id].Close()
		delete(dm.controllers, id)
		debug.Log("midi", "disconnected %s", id)
		dm.events <- DeviceEvent{Type: DeviceDisconnected, ID: id}
	}
	dm.mu.Unlock()
}

// classify decides what to make of an input port
func (dm *DeviceManager) classify(name string) ControllerType {
	lower := strings.ToLower(name)
	for _, pat := range excludedPatterns {
		if strings.Contains(lower, pat) {
			return ControllerUnknown
		}
	}

	dm.mu.RLock()
	allow, ignored := dm.allow, dm.ignoreOutputs[lower]
	dm.mu.RUnlock()
	if ignored || (allow != nil && !allow(name)) {
		return ControllerUnknown
	}

	if isLaunchpad(lower) {
		return ControllerLaunchpad
	}
	if strings.Contains(lower, "launchpad") {
		// DAW / auxiliary Launchpad ports
		return ControllerUnknown
	}
	return ControllerKeyboard
}

func matchOutput(name string, outPorts []drivers.Out) drivers.Out {
	for _, op := range outPorts {
		if strings.EqualFold(op.String(), name) {
			return op
		}
	}
	return nil
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
