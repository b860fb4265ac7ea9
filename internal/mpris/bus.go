package mpris

import (
	"github.com/godbus/dbus/v5"
)

// Bus is the slice of the session bus the remote session needs. The
// seam lets tests drive a Session against a fake bus.
type Bus interface {
	// ListNames returns all names currently registered on the bus.
	ListNames() ([]string, error)

	// Object returns a proxy bound to one destination and object path.
	Object(dest string, path dbus.ObjectPath) dbus.BusObject

	Close() error
}

type sessionBus struct {
	conn *dbus.Conn
}

// ConnectSessionBus connects to the user's D-Bus session bus.
func ConnectSessionBus() (Bus, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return &sessionBus{conn: conn}, nil
}

func (b *sessionBus) ListNames() ([]string, error) {
	var names []string
	err := b.conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	return names, err
}

func (b *sessionBus) Object(dest string, path dbus.ObjectPath) dbus.BusObject {
	return b.conn.Object(dest, path)
}

func (b *sessionBus) Close() error {
	return b.conn.Close()
}
