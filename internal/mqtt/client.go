// Package mqtt exposes the equalizer panel to Home Assistant over MQTT.
package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/agusx1211/two-band-eq/internal/equalizer"
	"github.com/agusx1211/two-band-eq/internal/panel"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// State is the retained JSON document published on <topic>/state.
type State struct {
	Power   bool              `json:"power"`
	Volume  float64           `json:"volume"`
	Preset  string            `json:"preset"`
	Cutoff  int               `json:"cutoff"`
	Bass    int               `json:"bass"`
	Treble  int               `json:"treble"`
	Rolloff string            `json:"rolloff"`
	Labels  map[string]string `json:"labels"`
}

// NewState snapshots params, which are indexed like equalizer.Params.
func NewState(params []panel.Param, preset string, volume float64, power bool) State {
	s := State{
		Power:  power,
		Volume: volume,
		Preset: preset,
		Labels: make(map[string]string, len(params)),
	}
	for i, p := range params {
		if i >= len(equalizer.Params) {
			break
		}
		s.Labels[equalizer.Params[i].Key] = p.Label
		switch i {
		case equalizer.ParamCutoff:
			s.Cutoff = p.Value
		case equalizer.ParamBass:
			s.Bass = p.Value
		case equalizer.ParamTreble:
			s.Treble = p.Value
		case equalizer.ParamRolloff:
			s.Rolloff = equalizer.OrderFromRaw(p.Value).String()
		}
	}
	return s
}

type Client struct {
	client      mqtt.Client
	topic       string
	state       func() State
	commandChan chan<- Command
}

func NewClient(broker string, port int, user, password, topic string, state func() State, cmdChan chan<- Command) (*Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("%s:%d", broker, port))
	opts.SetClientID(fmt.Sprintf("two-band-eq-%d", time.Now().Unix()))

	if user != "" {
		opts.SetUsername(user)
	}
	if password != "" {
		opts.SetPassword(password)
	}

	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)

	c := &Client{
		topic:       topic,
		state:       state,
		commandChan: cmdChan,
	}

	opts.OnConnect = c.onConnect
	opts.OnConnectionLost = c.onConnectionLost
	opts.SetWill(topic+"/availability", "offline", 0, true)

	c.client = mqtt.NewClient(opts)
	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt: connecting to %s:%d: %w", broker, port, token.Error())
	}

	return c, nil
}

func (c *Client) onConnect(client mqtt.Client) {
	log.Println("Connected to MQTT broker")

	client.Publish(c.topic+"/availability", 0, true, "online")

	for topic, handler := range c.subscriptions() {
		if token := client.Subscribe(topic, 0, handler); token.Wait() && token.Error() != nil {
			log.Printf("Failed to subscribe to %s: %v", topic, token.Error())
		}
	}

	c.publishDiscovery()
	c.PublishState()
}

func (c *Client) onConnectionLost(client mqtt.Client, err error) {
	log.Printf("MQTT connection lost: %v", err)
}

func (c *Client) subscriptions() map[string]mqtt.MessageHandler {
	subs := map[string]mqtt.MessageHandler{
		c.topic + "/power/set":  c.handlePower,
		c.topic + "/volume/set": c.handleVolume,
		c.topic + "/preset/set": c.handlePreset,
	}
	for _, p := range equalizer.Params {
		subs[c.topic+"/"+p.Key+"/set"] = c.paramHandler(p.Index)
	}
	return subs
}

func (c *Client) paramHandler(index int) mqtt.MessageHandler {
	return func(client mqtt.Client, msg mqtt.Message) {
		v, err := ParseParam(index, string(msg.Payload()))
		if err != nil {
			log.Printf("Ignoring %s: %v", msg.Topic(), err)
			return
		}
		c.sendCommand(Command{Action: ActionSetParam, Index: index, Value: v})
	}
}

func (c *Client) handlePower(client mqtt.Client, msg mqtt.Message) {
	c.sendCommand(Command{Action: ParsePower(string(msg.Payload()))})
}

func (c *Client) handleVolume(client mqtt.Client, msg mqtt.Message) {
	v, err := ParseVolume(string(msg.Payload()))
	if err != nil {
		log.Printf("Ignoring %s: %v", msg.Topic(), err)
		return
	}
	c.sendCommand(Command{Action: ActionSetVolume, Volume: v})
}

func (c *Client) handlePreset(client mqtt.Client, msg mqtt.Message) {
	name := strings.TrimSpace(string(msg.Payload()))
	// Custom is only ever reported back as state; selecting it changes nothing.
	if name == CustomPreset {
		return
	}
	c.sendCommand(Command{Action: ActionSetPreset, Preset: name})
}

func (c *Client) sendCommand(cmd Command) {
	select {
	case c.commandChan <- cmd:
	default:
		log.Println("Command channel full")
	}
}

func (c *Client) publishDiscovery() {
	entities := discoveryEntities(c.topic)
	for _, e := range entities {
		c.publishEntity(e.domain, e.id, e.config)
	}
	log.Printf("Published MQTT discovery (%d entities)", len(entities))
}

type entity struct {
	domain string
	id     string
	config map[string]interface{}
}

func discoveryEntities(topic string) []entity {
	device := map[string]interface{}{
		"identifiers":  []string{"two_band_eq"},
		"name":         "Two-Band Equalizer",
		"manufacturer": "two-band-eq",
		"model":        "Shelving EQ",
	}

	availability := map[string]interface{}{
		"topic": topic + "/availability",
	}

	base := func(name, id string) map[string]interface{} {
		return map[string]interface{}{
			"name":         name,
			"unique_id":    id,
			"device":       device,
			"availability": availability,
			"state_topic":  topic + "/state",
		}
	}

	power := base("Power", "two_band_eq_power")
	power["command_topic"] = topic + "/power/set"
	power["value_template"] = "{% if value_json.power %}ON{% else %}OFF{% endif %}"
	power["payload_on"] = "ON"
	power["payload_off"] = "OFF"
	power["icon"] = "mdi:power"

	volume := base("Volume", "two_band_eq_volume")
	volume["command_topic"] = topic + "/volume/set"
	volume["value_template"] = "{{ (value_json.volume * 100) | round(0) }}"
	volume["min"] = 0
	volume["max"] = 100
	volume["step"] = 1
	volume["unit_of_measurement"] = "%"
	volume["icon"] = "mdi:volume-high"

	preset := base("Preset", "two_band_eq_preset")
	preset["command_topic"] = topic + "/preset/set"
	preset["value_template"] = "{{ value_json.preset }}"
	preset["options"] = PresetNames()
	preset["icon"] = "mdi:tune-variant"

	entities := []entity{
		{"switch", "two_band_eq_power", power},
		{"number", "two_band_eq_volume", volume},
		{"select", "two_band_eq_preset", preset},
	}

	icons := map[string]string{
		"cutoff": "mdi:sine-wave",
		"bass":   "mdi:music-clef-bass",
		"treble": "mdi:music-clef-treble",
	}
	for _, p := range equalizer.Params {
		id := "two_band_eq_" + p.Key
		cfg := base(strings.ToUpper(p.Key[:1])+p.Key[1:], id)
		cfg["command_topic"] = topic + "/" + p.Key + "/set"

		if p.Index == equalizer.ParamRolloff {
			cfg["value_template"] = "{{ value_json.rolloff }}"
			cfg["options"] = []string{equalizer.FirstOrder.String(), equalizer.SecondOrder.String()}
			cfg["icon"] = "mdi:chart-bell-curve"
			entities = append(entities, entity{"select", id, cfg})
			continue
		}

		cfg["value_template"] = fmt.Sprintf("{{ value_json.%s }}", p.Key)
		cfg["min"] = p.Min
		cfg["max"] = p.Max
		cfg["step"] = 1
		cfg["icon"] = icons[p.Key]
		entities = append(entities, entity{"number", id, cfg})
	}
	return entities
}

func (c *Client) publishEntity(domain, entityID string, config map[string]interface{}) {
	data, _ := json.Marshal(config)
	topic := fmt.Sprintf("homeassistant/%s/%s/config", domain, entityID)
	if token := c.client.Publish(topic, 0, true, data); token.Wait() && token.Error() != nil {
		log.Printf("Failed to publish discovery for %s: %v", entityID, token.Error())
	}
}

func (c *Client) PublishState() {
	data, err := json.Marshal(c.state())
	if err != nil {
		log.Printf("Failed to marshal MQTT state: %v", err)
		return
	}
	c.client.Publish(c.topic+"/state", 0, true, data)
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Publish(c.topic+"/availability", 0, true, "offline")
		c.client.Disconnect(250)
	}
}
