//go:build linux

package platform

import (
	"fmt"
	"sync"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"go.uber.org/zap"

	"github.com/azure06/clipsx/internal/types"
)

// transferChunk bounds a single GetProperty call when reading a selection,
// in 32-bit units (1MB of payload).
const transferChunk = 1048576 / 4

// convertTimeout bounds how long we wait for a SelectionNotify reply before
// concluding the owner is unresponsive.
const convertTimeout = 1 * time.Second

// linuxAdapter owns an X11 window used purely as a selection participant:
// it requests CLIPBOARD conversions to read, and becomes the CLIPBOARD
// owner to write, answering SelectionRequest events itself.
type linuxAdapter struct {
	logger *zap.Logger

	conn *xgb.Conn
	win  xproto.Window

	atomClipboard  xproto.Atom
	atomTargets    xproto.Atom
	atomUTF8       xproto.Atom
	atomHTML       xproto.Atom
	atomPNG        xproto.Atom
	atomURIList    xproto.Atom
	atomTimestamp  xproto.Atom
	atomIncr       xproto.Atom

	mu        sync.Mutex
	lastWrite *types.ClipboardContent
	seq       int64

	notify chan xproto.SelectionNotifyEvent
}

// New returns the linux Adapter. It connects to the X display named by
// $DISPLAY and creates an invisible window to participate in selections.
func New(logger *zap.Logger) Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &linuxAdapter{logger: logger, notify: make(chan xproto.SelectionNotifyEvent, 4)}
	if err := a.connect(); err != nil {
		logger.Warn("x11 clipboard adapter unavailable", zap.Error(err))
	}
	return a
}

func (a *linuxAdapter) connect() error {
	conn, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("x11 connect: %w", err)
	}
	a.conn = conn

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	win, err := xproto.NewWindowId(conn)
	if err != nil {
		return fmt.Errorf("x11 window id: %w", err)
	}
	a.win = win
	err = xproto.CreateWindowChecked(conn, screen.RootDepth, win, screen.Root,
		-1, -1, 1, 1, 0, xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check()
	if err != nil {
		return fmt.Errorf("x11 create window: %w", err)
	}

	a.atomClipboard = a.mustAtom("CLIPBOARD")
	a.atomTargets = a.mustAtom("TARGETS")
	a.atomUTF8 = a.mustAtom("UTF8_STRING")
	a.atomHTML = a.mustAtom("text/html")
	a.atomPNG = a.mustAtom("image/png")
	a.atomURIList = a.mustAtom("text/uri-list")
	a.atomTimestamp = a.mustAtom("TIMESTAMP")
	a.atomIncr = a.mustAtom("INCR")

	go a.eventLoop()
	return nil
}

func (a *linuxAdapter) mustAtom(name string) xproto.Atom {
	reply, err := xproto.InternAtom(a.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return xproto.AtomNone
	}
	return reply.Atom
}

// eventLoop answers SelectionRequest events for whatever we last wrote, and
// forwards SelectionNotify replies to whichever Read call is waiting.
func (a *linuxAdapter) eventLoop() {
	for {
		ev, err := a.conn.WaitForEvent()
		if err != nil || ev == nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			a.serveRequest(e)
		case xproto.SelectionNotifyEvent:
			select {
			case a.notify <- e:
			default:
			}
		}
	}
}

func (a *linuxAdapter) serveRequest(ev xproto.SelectionRequestEvent) {
	a.mu.Lock()
	content := a.lastWrite
	a.mu.Unlock()

	reply := xproto.SelectionNotifyEvent{
		Time:      ev.Time,
		Requestor: ev.Requestor,
		Selection: ev.Selection,
		Target:    ev.Target,
		Property:  xproto.AtomNone,
	}

	if content != nil {
		prop := ev.Property
		if prop == xproto.AtomNone {
			prop = ev.Target
		}
		switch ev.Target {
		case a.atomTargets:
			targets := []xproto.Atom{a.atomUTF8, a.atomTargets, a.atomTimestamp}
			buf := make([]byte, 4*len(targets))
			for i, t := range targets {
				xgb.Put32(buf[i*4:], uint32(t))
			}
			xproto.ChangeProperty(a.conn, xproto.PropModeReplace, reply.Requestor, prop, xproto.AtomAtom, 32, uint32(len(targets)), buf)
			reply.Property = prop
		case a.atomUTF8:
			text := []byte(contentPlainText(content))
			xproto.ChangeProperty(a.conn, xproto.PropModeReplace, reply.Requestor, prop, a.atomUTF8, 8, uint32(len(text)), text)
			reply.Property = prop
		case a.atomHTML:
			if content.Kind == types.KindHTML {
				data := []byte(content.Markup)
				xproto.ChangeProperty(a.conn, xproto.PropModeReplace, reply.Requestor, prop, a.atomHTML, 8, uint32(len(data)), data)
				reply.Property = prop
			}
		case a.atomPNG:
			if content.Kind == types.KindImage && content.ImageFormat == types.ImagePNG {
				xproto.ChangeProperty(a.conn, xproto.PropModeReplace, reply.Requestor, prop, a.atomPNG, 8, uint32(len(content.ImageBytes)), content.ImageBytes)
				reply.Property = prop
			}
		case a.atomURIList:
			if content.Kind == types.KindFiles {
				data := []byte(filesToURIList(content.Paths))
				xproto.ChangeProperty(a.conn, xproto.PropModeReplace, reply.Requestor, prop, a.atomURIList, 8, uint32(len(data)), data)
				reply.Property = prop
			}
		}
	}

	xproto.SendEvent(a.conn, false, reply.Requestor, uint32(xproto.EventMaskNoEvent), string(reply.Bytes()))
}

func contentPlainText(c *types.ClipboardContent) string {
	switch c.Kind {
	case types.KindText:
		return c.Text
	case types.KindHTML, types.KindRTF:
		return c.Plain
	case types.KindOffice:
		return c.ExtractedText
	default:
		return ""
	}
}

func filesToURIList(paths []string) string {
	out := ""
	for _, p := range paths {
		out += "file://" + p + "\r\n"
	}
	return out
}

func (a *linuxAdapter) ChangeCounter() int64 {
	// X11 exposes no native change counter on CLIPBOARD; the monitor falls
	// back to content hashing, so we report an owner-local write sequence
	// purely to short-circuit our own writes from triggering re-detection.
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.seq
}

func (a *linuxAdapter) ActiveAppName() string {
	return ""
}

func (a *linuxAdapter) Read() (*types.ClipboardContent, error) {
	if a.conn == nil {
		return nil, fmt.Errorf("x11 clipboard: not connected")
	}
	owner, err := xproto.GetSelectionOwner(a.conn, a.atomClipboard).Reply()
	if err != nil {
		return nil, fmt.Errorf("x11 clipboard: get owner: %w", err)
	}
	if owner.Owner == xproto.AtomNone {
		return nil, nil
	}
	if owner.Owner == a.win {
		a.mu.Lock()
		defer a.mu.Unlock()
		return a.lastWrite, nil
	}

	if data, ok := a.convert(a.atomURIList); ok {
		return &types.ClipboardContent{Kind: types.KindFiles, Paths: parseURIList(string(data))}, nil
	}
	if data, ok := a.convert(a.atomPNG); ok {
		return &types.ClipboardContent{Kind: types.KindImage, ImageBytes: data, ImageFormat: types.ImagePNG}, nil
	}
	if data, ok := a.convert(a.atomHTML); ok {
		html := string(data)
		return &types.ClipboardContent{Kind: types.KindHTML, Markup: html, Plain: stripHTML(html)}, nil
	}
	if data, ok := a.convert(a.atomUTF8); ok {
		return &types.ClipboardContent{Kind: types.KindText, Text: string(data)}, nil
	}
	return nil, nil
}

func (a *linuxAdapter) convert(target xproto.Atom) ([]byte, bool) {
	if target == xproto.AtomNone {
		return nil, false
	}
	xproto.ConvertSelection(a.conn, a.win, a.atomClipboard, target, a.atomClipboard, xproto.TimeCurrentTime)

	select {
	case ev := <-a.notify:
		if ev.Property == xproto.AtomNone {
			return nil, false
		}
		return a.readProperty(ev.Property)
	case <-time.After(convertTimeout):
		return nil, false
	}
}

func (a *linuxAdapter) readProperty(prop xproto.Atom) ([]byte, bool) {
	var buf []byte
	var offset uint32
	for {
		reply, err := xproto.GetProperty(a.conn, true, a.win, prop, xproto.AtomAny, offset, transferChunk).Reply()
		if err != nil {
			return nil, false
		}
		if reply.Type == a.atomIncr {
			// INCR transfers are rare for clipboard text/image payloads at
			// our scale; treat as unsupported rather than implement the
			// full handshake.
			return nil, false
		}
		buf = append(buf, reply.Value...)
		if reply.BytesAfter == 0 {
			break
		}
		offset += uint32(len(reply.Value)) / 4
	}
	if len(buf) == 0 {
		return nil, false
	}
	return buf, true
}

func parseURIList(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '\n' {
			line := s[start:i]
			line = trimCRLF(line)
			if len(line) > 7 && line[:7] == "file://" {
				out = append(out, line[7:])
			}
			start = i + 1
		}
	}
	return out
}

func trimCRLF(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\r' || s[len(s)-1] == '\n') {
		s = s[:len(s)-1]
	}
	return s
}

func (a *linuxAdapter) Write(content *types.ClipboardContent) error {
	if a.conn == nil {
		return fmt.Errorf("x11 clipboard: not connected")
	}
	a.mu.Lock()
	a.lastWrite = content
	a.seq++
	a.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(a.conn, a.win, a.atomClipboard, xproto.TimeCurrentTime).Check()
}
