package opcua

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gopcua/opcua"
	"github.com/gopcua/opcua/ua"

	"github.com/kevinclark/AdvantageKit/internal/ports"
)

// Config captures the runtime details required to open an OPC UA session
// against a bench rig that publishes driver-station state.
type Config struct {
	Endpoint         string        `yaml:"endpoint"`
	Username         string        `yaml:"username"`
	Password         string        `yaml:"password"`
	SecurityMode     string        `yaml:"security_mode"`
	SecurityPolicy   string        `yaml:"security_policy"`
	ApplicationName  string        `yaml:"application_name"`
	PublishInterval  time.Duration `yaml:"publish_interval"`
	SamplingInterval time.Duration `yaml:"sampling_interval"`

	Station   StationConfig    `yaml:"station"`
	Joysticks []JoystickConfig `yaml:"joysticks"`
}

// StationConfig maps driver-station scalar fields onto monitored nodes.
// Any empty node id simply leaves that field at its default.
type StationConfig struct {
	AllianceStationNode     string `yaml:"alliance_station_node"`
	EventNameNode           string `yaml:"event_name_node"`
	GameSpecificMessageNode string `yaml:"game_specific_message_node"`
	MatchNumberNode         string `yaml:"match_number_node"`
	ReplayNumberNode        string `yaml:"replay_number_node"`
	MatchTypeNode           string `yaml:"match_type_node"`
	MatchTimeNode           string `yaml:"match_time_node"`
	ControlWordNode         string `yaml:"control_word_node"`
}

// JoystickConfig describes one joystick slot on the rig. Name, type, and axis
// types are static rig properties; buttons arrive as a packed bitmask node and
// axes/POVs as one node per channel.
type JoystickConfig struct {
	ID          int      `yaml:"id"`
	Name        string   `yaml:"name"`
	Type        int64    `yaml:"type"`
	Xbox        bool     `yaml:"xbox"`
	ButtonCount int      `yaml:"button_count"`
	ButtonsNode string   `yaml:"buttons_node"`
	AxisNodes   []string `yaml:"axis_nodes"`
	AxisTypes   []int64  `yaml:"axis_types"`
	POVNodes    []string `yaml:"pov_nodes"`
}

func (c *Config) ApplyDefaults() {
	if c.SecurityMode == "" {
		c.SecurityMode = "None"
	}
	if c.SecurityPolicy == "" {
		c.SecurityPolicy = "None"
	}
	if c.ApplicationName == "" {
		c.ApplicationName = "AdvantageKit Conduit"
	}
	if c.PublishInterval <= 0 {
		c.PublishInterval = 20 * time.Millisecond
	}
	if c.SamplingInterval < 0 {
		c.SamplingInterval = 0
	}
	for i := range c.Joysticks {
		js := &c.Joysticks[i]
		if js.ButtonCount == 0 && js.ButtonsNode != "" {
			js.ButtonCount = 12
		}
		if len(js.AxisTypes) == 0 && len(js.AxisNodes) > 0 {
			js.AxisTypes = make([]int64, len(js.AxisNodes))
		}
	}
}

func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	for _, js := range c.Joysticks {
		if js.ID < 0 || js.ID >= ports.NumJoysticks {
			return fmt.Errorf("joystick id %d out of range [0,%d)", js.ID, ports.NumJoysticks)
		}
	}
	return nil
}

// stickState is the cached live state for one joystick slot.
type stickState struct {
	name        string
	typ         int64
	xbox        bool
	buttonCount int
	buttons     uint32
	axes        []float32
	axisTypes   []int64
	povs        []int64
}

// stationState is the cached live driver-station state.
type stationState struct {
	allianceStation     int64
	eventName           string
	gameSpecificMessage string
	matchNumber         int64
	replayNumber        int64
	matchType           int64
	matchTime           float64
	controlWord         int64
}

// Conduit exposes the latest values published by the rig. Reads never block:
// each accessor copies out of a cache that the subscription goroutine keeps
// current, and a disconnected rig simply leaves the cache at defaults.
type Conduit struct {
	cfg     Config
	client  *opcua.Client
	sub     *opcua.Subscription
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	applyFn map[uint32]func(*ua.Variant)

	mu      sync.Mutex
	station stationState
	sticks  [ports.NumJoysticks]stickState
	started bool
}

func NewConduit(cfg Config) (*Conduit, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Conduit{cfg: cfg}
	for _, js := range cfg.Joysticks {
		c.sticks[js.ID] = stickState{
			name:        js.Name,
			typ:         js.Type,
			xbox:        js.Xbox,
			buttonCount: js.ButtonCount,
			axes:        make([]float32, len(js.AxisNodes)),
			axisTypes:   append([]int64(nil), js.AxisTypes...),
			povs:        make([]int64, len(js.POVNodes)),
		}
	}
	return c, nil
}

// monitoredNode pairs a node id with the cache update it drives.
type monitoredNode struct {
	nodeID string
	apply  func(*ua.Variant)
}

func (c *Conduit) monitoredNodes() []monitoredNode {
	st := c.cfg.Station
	nodes := []monitoredNode{
		{st.AllianceStationNode, func(v *ua.Variant) { c.station.allianceStation, _ = variantToInt64(v) }},
		{st.EventNameNode, func(v *ua.Variant) { c.station.eventName, _ = variantToString(v) }},
		{st.GameSpecificMessageNode, func(v *ua.Variant) { c.station.gameSpecificMessage, _ = variantToString(v) }},
		{st.MatchNumberNode, func(v *ua.Variant) { c.station.matchNumber, _ = variantToInt64(v) }},
		{st.ReplayNumberNode, func(v *ua.Variant) { c.station.replayNumber, _ = variantToInt64(v) }},
		{st.MatchTypeNode, func(v *ua.Variant) { c.station.matchType, _ = variantToInt64(v) }},
		{st.MatchTimeNode, func(v *ua.Variant) { c.station.matchTime = variantToFloat(v) }},
		{st.ControlWordNode, func(v *ua.Variant) { c.station.controlWord, _ = variantToInt64(v) }},
	}

	for _, js := range c.cfg.Joysticks {
		id := js.ID
		if js.ButtonsNode != "" {
			nodes = append(nodes, monitoredNode{js.ButtonsNode, func(v *ua.Variant) {
				if raw, ok := variantToInt64(v); ok {
					c.sticks[id].buttons = uint32(raw)
				}
			}})
		}
		for ai, node := range js.AxisNodes {
			ai := ai
			nodes = append(nodes, monitoredNode{node, func(v *ua.Variant) {
				c.sticks[id].axes[ai] = float32(variantToFloat(v))
			}})
		}
		for pi, node := range js.POVNodes {
			pi := pi
			nodes = append(nodes, monitoredNode{node, func(v *ua.Variant) {
				if raw, ok := variantToInt64(v); ok {
					c.sticks[id].povs[pi] = raw
				}
			}})
		}
	}

	out := nodes[:0]
	for _, n := range nodes {
		if n.nodeID != "" {
			out = append(out, n)
		}
	}
	return out
}

func (c *Conduit) Start() error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return fmt.Errorf("opcua conduit already started")
	}
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	clientOpts, err := c.buildClientOptions()
	if err != nil {
		cancel()
		return err
	}

	client, err := opcua.NewClient(c.cfg.Endpoint, clientOpts...)
	if err != nil {
		cancel()
		return fmt.Errorf("opcua new client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		cancel()
		return fmt.Errorf("opcua connect: %w", err)
	}

	monitored := c.monitoredNodes()
	notifyCh := make(chan *opcua.PublishNotificationData, len(monitored)*4)
	sub, err := client.Subscribe(ctx, &opcua.SubscriptionParameters{
		Interval: c.cfg.PublishInterval,
	}, notifyCh)
	if err != nil {
		cancel()
		_ = client.Close(ctx)
		return fmt.Errorf("opcua subscribe: %w", err)
	}

	applyFn := make(map[uint32]func(*ua.Variant), len(monitored))
	for i, mon := range monitored {
		nodeID, err := ua.ParseNodeID(mon.nodeID)
		if err != nil {
			c.cleanupOnError(ctx, cancel, sub, client)
			return fmt.Errorf("parse node id %q: %w", mon.nodeID, err)
		}
		handle := uint32(i + 1)
		req := opcua.NewMonitoredItemCreateRequestWithDefaults(nodeID, ua.AttributeIDValue, handle)
		if c.cfg.SamplingInterval > 0 {
			req.RequestedParameters.SamplingInterval = float64(c.cfg.SamplingInterval / time.Millisecond)
		}
		res, err := sub.Monitor(ctx, ua.TimestampsToReturnBoth, req)
		if err != nil {
			c.cleanupOnError(ctx, cancel, sub, client)
			return fmt.Errorf("monitor node %q: %w", mon.nodeID, err)
		}
		if len(res.Results) == 0 || res.Results[0].StatusCode != ua.StatusOK {
			c.cleanupOnError(ctx, cancel, sub, client)
			return fmt.Errorf("monitor node %q failed", mon.nodeID)
		}
		applyFn[handle] = mon.apply
	}

	c.mu.Lock()
	c.client = client
	c.sub = sub
	c.cancel = cancel
	c.applyFn = applyFn
	c.started = true
	c.mu.Unlock()

	c.wg.Add(1)
	go c.consume(ctx, notifyCh)
	return nil
}

func (c *Conduit) Stop() error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return nil
	}
	cancel := c.cancel
	sub := c.sub
	client := c.client
	c.started = false
	c.cancel = nil
	c.sub = nil
	c.client = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	ctx, ctxCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer ctxCancel()

	var err error
	if sub != nil {
		if e := sub.Cancel(ctx); e != nil && !errors.Is(e, context.Canceled) {
			err = errors.Join(err, e)
		}
	}
	if client != nil {
		if e := client.Close(ctx); e != nil && !errors.Is(e, context.Canceled) {
			err = errors.Join(err, e)
		}
	}

	c.wg.Wait()
	return err
}

func (c *Conduit) consume(ctx context.Context, ch <-chan *opcua.PublishNotificationData) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case notif := <-ch:
			if notif == nil {
				continue
			}
			if notif.Error != nil {
				log.Printf("opcua: notification error: %v", notif.Error)
				continue
			}
			c.applyNotification(notif.Value)
		}
	}
}

func (c *Conduit) applyNotification(val interface{}) {
	data, ok := val.(*ua.DataChangeNotification)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range data.MonitoredItems {
		apply, ok := c.applyFn[item.ClientHandle]
		if !ok {
			continue
		}
		apply(item.Value.Value)
	}
}

// Conduit accessors. All of them are total: before Start, after Stop, or
// while the rig is unreachable they return the last known value, which starts
// at the zero default.

func (c *Conduit) AllianceStation() int64 { c.mu.Lock(); defer c.mu.Unlock(); return c.station.allianceStation }
func (c *Conduit) EventName() string      { c.mu.Lock(); defer c.mu.Unlock(); return c.station.eventName }
func (c *Conduit) GameSpecificMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.station.gameSpecificMessage
}
func (c *Conduit) MatchNumber() int64  { c.mu.Lock(); defer c.mu.Unlock(); return c.station.matchNumber }
func (c *Conduit) ReplayNumber() int64 { c.mu.Lock(); defer c.mu.Unlock(); return c.station.replayNumber }
func (c *Conduit) MatchType() int64    { c.mu.Lock(); defer c.mu.Unlock(); return c.station.matchType }
func (c *Conduit) MatchTime() float64  { c.mu.Lock(); defer c.mu.Unlock(); return c.station.matchTime }
func (c *Conduit) ControlWord() int64  { c.mu.Lock(); defer c.mu.Unlock(); return c.station.controlWord }

func (c *Conduit) JoystickName(id int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id < 0 || id >= ports.NumJoysticks {
		return ""
	}
	return c.sticks[id].name
}

func (c *Conduit) JoystickType(id int) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id < 0 || id >= ports.NumJoysticks {
		return 0
	}
	return c.sticks[id].typ
}

func (c *Conduit) IsXbox(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id < 0 || id >= ports.NumJoysticks {
		return false
	}
	return c.sticks[id].xbox
}

func (c *Conduit) ButtonCount(id int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id < 0 || id >= ports.NumJoysticks {
		return 0
	}
	return c.sticks[id].buttonCount
}

func (c *Conduit) ButtonValues(id int) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id < 0 || id >= ports.NumJoysticks {
		return 0
	}
	return c.sticks[id].buttons
}

func (c *Conduit) AxisValues(id int) []float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id < 0 || id >= ports.NumJoysticks {
		return nil
	}
	return append([]float32(nil), c.sticks[id].axes...)
}

func (c *Conduit) AxisTypes(id int) []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id < 0 || id >= ports.NumJoysticks {
		return nil
	}
	return append([]int64(nil), c.sticks[id].axisTypes...)
}

func (c *Conduit) POVs(id int) []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id < 0 || id >= ports.NumJoysticks {
		return nil
	}
	return append([]int64(nil), c.sticks[id].povs...)
}

func (c *Conduit) buildClientOptions() ([]opcua.Option, error) {
	opts := []opcua.Option{
		opcua.SecurityModeString(normalizeSecurityMode(c.cfg.SecurityMode)),
		opcua.SecurityPolicy(normalizeSecurityPolicy(c.cfg.SecurityPolicy)),
		opcua.ApplicationName(c.cfg.ApplicationName),
		opcua.AutoReconnect(true),
	}

	if c.cfg.Username != "" {
		opts = append(opts, opcua.AuthUsername(c.cfg.Username, c.cfg.Password))
	} else {
		opts = append(opts, opcua.AuthAnonymous())
	}

	return opts, nil
}

func (c *Conduit) cleanupOnError(ctx context.Context, cancel context.CancelFunc, sub *opcua.Subscription, client *opcua.Client) {
	cancel()
	if sub != nil {
		_ = sub.Cancel(ctx)
	}
	if client != nil {
		_ = client.Close(ctx)
	}
}

func variantToFloat(v *ua.Variant) float64 {
	if v == nil {
		return 0
	}

	switch val := v.Value().(type) {
	case float32:
		return float64(val)
	case float64:
		return val
	case int8:
		return float64(val)
	case uint8:
		return float64(val)
	case int16:
		return float64(val)
	case uint16:
		return float64(val)
	case int32:
		return float64(val)
	case uint32:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	default:
		return 0
	}
}

func variantToInt64(v *ua.Variant) (int64, bool) {
	if v == nil {
		return 0, false
	}

	switch val := v.Value().(type) {
	case int8:
		return int64(val), true
	case uint8:
		return int64(val), true
	case int16:
		return int64(val), true
	case uint16:
		return int64(val), true
	case int32:
		return int64(val), true
	case uint32:
		return int64(val), true
	case int64:
		return val, true
	case uint64:
		return int64(val), true
	case float32:
		return int64(val), true
	case float64:
		return int64(val), true
	default:
		return 0, false
	}
}

func variantToString(v *ua.Variant) (string, bool) {
	if v == nil {
		return "", false
	}
	if s, ok := v.Value().(string); ok {
		return s, true
	}
	return "", false
}

func normalizeSecurityMode(mode string) string {
	switch strings.ToLower(mode) {
	case "sign":
		return "Sign"
	case "signandencrypt", "signencrypt", "sign_and_encrypt", "sign+encrypt":
		return "SignAndEncrypt"
	default:
		return "None"
	}
}

func normalizeSecurityPolicy(policy string) string {
	if policy == "" {
		return "None"
	}
	return policy
}

var _ ports.Conduit = (*Conduit)(nil)
