package contracts

// DeviceInfo contains information about a MIDI port exposed by a backend.
type DeviceInfo struct {
	Port         int    // Port number as enumerated by the backend.
	Name         string // Device name.
	Manufacturer string // Device manufacturer, if the backend reports one.
	EntityName   string // Name of the entity to which the device belongs.
	API          string // Backend that enumerated the port.
}

// String returns the display name of the port.
func (d DeviceInfo) String() string {
	return d.Name
}
