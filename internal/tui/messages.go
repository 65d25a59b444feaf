package tui

// ParamsChangedMsg is sent by the panel listener after any accepted change,
// including ones made over MQTT.
type ParamsChangedMsg struct{}

// OutputChangedMsg reports a volume or power change.
type OutputChangedMsg struct{}

type setResultMsg struct {
	err error
}
