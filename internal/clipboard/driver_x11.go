//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// readTimeout bounds how long a read waits for the selection owner.
const readTimeout = 2 * time.Second

const (
	atomClipboard = "CLIPBOARD"
	atomTargets   = "TARGETS"
	atomPNG       = "image/png"
	atomUTF8      = "UTF8_STRING"
	atomPlain     = "text/plain;charset=utf-8"
	// atomProperty receives converted selections on the reader's window.
	atomProperty = "GENLABEL_SELECTION"
)

var atomNames = []string{atomClipboard, atomTargets, atomPNG, atomUTF8, atomPlain, atomProperty}

var errNoTarget = errors.New("clipboard owner cannot provide the requested type")

// x11Driver owns the CLIPBOARD selection for the PNG genlabel publishes and
// reads other owners' selections over a short-lived second connection.
type x11Driver struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  map[string]xproto.Atom

	mu  sync.Mutex
	png []byte
}

func openDriver() (driver, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("x11 clipboard: %w", err)
	}
	window, err := helperWindow(conn, xproto.EventMaskStructureNotify)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("x11 clipboard: %w", err)
	}
	atoms, err := intern(conn, atomNames)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("x11 clipboard: %w", err)
	}
	d := &x11Driver{conn: conn, window: window, atoms: atoms}
	go d.serve()
	return d, nil
}

// helperWindow creates the unmapped 1x1 window selections are bound to.
func helperWindow(conn *xgb.Conn, mask uint32) (xproto.Window, error) {
	screen := xproto.Setup(conn).DefaultScreen(conn)
	w, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}
	err = xproto.CreateWindowChecked(conn, 0, w, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{mask}).Check()
	return w, err
}

func intern(conn *xgb.Conn, names []string) (map[string]xproto.Atom, error) {
	cookies := make([]xproto.InternAtomCookie, len(names))
	for i, n := range names {
		cookies[i] = xproto.InternAtom(conn, false, uint16(len(n)), n)
	}
	atoms := make(map[string]xproto.Atom, len(names))
	for i, c := range cookies {
		reply, err := c.Reply()
		if err != nil {
			return nil, fmt.Errorf("intern %s: %w", names[i], err)
		}
		atoms[names[i]] = reply.Atom
	}
	return atoms, nil
}

func (d *x11Driver) writeImage(data []byte) error {
	d.mu.Lock()
	d.png = append([]byte(nil), data...)
	d.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(d.conn, d.window, d.atoms[atomClipboard], xproto.TimeCurrentTime).Check()
}

// serve answers selection requests while genlabel owns the clipboard.
func (d *x11Driver) serve() {
	for {
		ev, err := d.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			d.answer(e)
		case xproto.SelectionClearEvent:
			d.mu.Lock()
			d.png = nil
			d.mu.Unlock()
		}
	}
}

func (d *x11Driver) answer(e xproto.SelectionRequestEvent) {
	d.mu.Lock()
	data := d.png
	d.mu.Unlock()

	prop := e.Property
	if prop == xproto.AtomNone {
		prop = e.Target
	}
	switch {
	case len(data) == 0:
		prop = xproto.AtomNone
	case e.Target == d.atoms[atomTargets]:
		targets := []xproto.Atom{d.atoms[atomTargets], d.atoms[atomPNG]}
		buf := make([]byte, 4*len(targets))
		for i, a := range targets {
			xgb.Put32(buf[4*i:], uint32(a))
		}
		xproto.ChangeProperty(d.conn, xproto.PropModeReplace, e.Requestor, prop, xproto.AtomAtom, 32, uint32(len(targets)), buf)
	case e.Target == d.atoms[atomPNG]:
		xproto.ChangeProperty(d.conn, xproto.PropModeReplace, e.Requestor, prop, d.atoms[atomPNG], 8, uint32(len(data)), data)
	default:
		prop = xproto.AtomNone
	}

	reply := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  prop,
	}
	xproto.SendEvent(d.conn, false, e.Requestor, xproto.EventMaskNoEvent, string(reply.Bytes()))
}

// targetsFor lists the selection targets tried for k, preferred first.
func (d *x11Driver) targetsFor(k kind) []xproto.Atom {
	if k == kindImage {
		return []xproto.Atom{d.atoms[atomPNG]}
	}
	return []xproto.Atom{d.atoms[atomUTF8], d.atoms[atomPlain], xproto.AtomString}
}

func (d *x11Driver) read(k kind) ([]byte, error) {
	var last error
	for _, target := range d.targetsFor(k) {
		data, err := d.convert(target)
		if err == nil {
			return data, nil
		}
		last = err
	}
	if errors.Is(last, errNoTarget) {
		return nil, nil
	}
	return nil, last
}

// convert asks the current owner for the selection as target. A separate
// connection is used so the owner's event loop never sees the reply.
func (d *x11Driver) convert(target xproto.Atom) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	w, err := helperWindow(conn, xproto.EventMaskPropertyChange)
	if err != nil {
		return nil, err
	}
	prop := d.atoms[atomProperty]
	if err := xproto.ConvertSelectionChecked(conn, w, d.atoms[atomClipboard], target, prop, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		for {
			ev, err := conn.WaitForEvent()
			if ev == nil && err == nil {
				done <- result{err: errors.New("x11 connection closed")}
				return
			}
			if err != nil {
				done <- result{err: err}
				return
			}
			n, ok := ev.(xproto.SelectionNotifyEvent)
			if !ok {
				continue
			}
			if n.Property == xproto.AtomNone {
				done <- result{err: errNoTarget}
				return
			}
			reply, perr := xproto.GetProperty(conn, true, w, prop, xproto.GetPropertyTypeAny, 0, 1<<30).Reply()
			if perr != nil {
				done <- result{err: perr}
				return
			}
			done <- result{data: append([]byte(nil), reply.Value...)}
			return
		}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-time.After(readTimeout):
		return nil, fmt.Errorf("clipboard owner did not answer within %v", readTimeout)
	}
}
