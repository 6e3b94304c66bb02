//go:build windows

package platform

import (
	"fmt"
	"syscall"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/azure06/clipsx/internal/types"
)

const (
	cfText        = 13 // CF_UNICODETEXT
	cfDIBV5       = 17 // CF_DIBV5 (device-independent bitmap with alpha)
	cfHDrop       = 15 // CF_HDROP
	gmemMoveable  = 0x0002
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	kernel32                = windows.NewLazySystemDLL("kernel32.dll")
	shell32                 = windows.NewLazySystemDLL("shell32.dll")
	procOpenClipboard       = user32.NewProc("OpenClipboard")
	procCloseClipboard      = user32.NewProc("CloseClipboard")
	procEmptyClipboard      = user32.NewProc("EmptyClipboard")
	procGetClipboardData    = user32.NewProc("GetClipboardData")
	procSetClipboardData    = user32.NewProc("SetClipboardData")
	procRegisterClipFormat  = user32.NewProc("RegisterClipboardFormatW")
	procIsClipboardFormatOK = user32.NewProc("IsClipboardFormatAvailable")
	procGetClipboardSeq     = user32.NewProc("GetClipboardSequenceNumber")
	procGetForegroundWindow = user32.NewProc("GetForegroundWindow")
	procGetWindowThreadPid  = user32.NewProc("GetWindowThreadProcessId")
	procGlobalAlloc         = kernel32.NewProc("GlobalAlloc")
	procGlobalLock          = kernel32.NewProc("GlobalLock")
	procGlobalUnlock        = kernel32.NewProc("GlobalUnlock")
	procDragQueryFile       = shell32.NewProc("DragQueryFileW")
)

// windowsAdapter implements Adapter over the Win32 clipboard API.
type windowsAdapter struct {
	logger       *zap.Logger
	fmtHTML      uint32
	fmtRTF       uint32
	fmtPNG       uint32
}

// New returns the windows Adapter.
func New(logger *zap.Logger) Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &windowsAdapter{
		logger:  logger,
		fmtHTML: registerFormat("HTML Format"),
		fmtRTF:  registerFormat("Rich Text Format"),
		fmtPNG:  registerFormat("PNG"),
	}
}

func registerFormat(name string) uint32 {
	ptr, err := syscall.UTF16PtrFromString(name)
	if err != nil {
		return 0
	}
	r, _, _ := procRegisterClipFormat.Call(uintptr(unsafe.Pointer(ptr)))
	return uint32(r)
}

func (a *windowsAdapter) ChangeCounter() int64 {
	r, _, _ := procGetClipboardSeq.Call()
	return int64(r)
}

func (a *windowsAdapter) ActiveAppName() string {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return ""
	}
	var pid uint32
	procGetWindowThreadPid.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if pid == 0 {
		return ""
	}
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(h)
	buf := make([]uint16, windows.MAX_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return ""
	}
	return syscall.UTF16ToString(buf[:size])
}

func withClipboard(fn func() error) error {
	ok, _, _ := procOpenClipboard.Call(0)
	if ok == 0 {
		return fmt.Errorf("windows clipboard: OpenClipboard failed")
	}
	defer procCloseClipboard.Call()
	return fn()
}

func (a *windowsAdapter) Read() (*types.ClipboardContent, error) {
	var content *types.ClipboardContent
	err := withClipboard(func() error {
		if paths, ok := readHDrop(); ok {
			content = &types.ClipboardContent{Kind: types.KindFiles, Paths: paths}
			return nil
		}
		if data, ok := readGlobalFormat(cfDIBV5); ok {
			content = &types.ClipboardContent{Kind: types.KindImage, ImageBytes: data, ImageFormat: types.ImagePNG}
			return nil
		}
		if a.fmtHTML != 0 {
			if data, ok := readGlobalFormat(a.fmtHTML); ok {
				html := parseCFHTML(data)
				content = &types.ClipboardContent{Kind: types.KindHTML, Markup: html, Plain: stripHTML(html)}
				return nil
			}
		}
		if a.fmtRTF != 0 {
			if data, ok := readGlobalFormat(a.fmtRTF); ok {
				content = &types.ClipboardContent{Kind: types.KindRTF, Markup: string(data), Plain: extractRTFText(data)}
				return nil
			}
		}
		if text, ok := readUnicodeText(); ok {
			content = &types.ClipboardContent{Kind: types.KindText, Text: text}
		}
		return nil
	})
	return content, err
}

func (a *windowsAdapter) Write(content *types.ClipboardContent) error {
	return withClipboard(func() error {
		procEmptyClipboard.Call()
		switch content.Kind {
		case types.KindFiles:
			return writeHDrop(content.Paths)
		case types.KindImage:
			return writeGlobalFormat(cfDIBV5, content.ImageBytes)
		case types.KindHTML:
			if a.fmtHTML != 0 {
				if err := writeGlobalFormat(a.fmtHTML, []byte(buildCFHTML(content.Markup))); err != nil {
					return err
				}
			}
			return writeUnicodeText(content.Plain)
		case types.KindRTF:
			if a.fmtRTF != 0 {
				if err := writeGlobalFormat(a.fmtRTF, []byte(content.Markup)); err != nil {
					return err
				}
			}
			return writeUnicodeText(content.Plain)
		case types.KindOffice:
			return writeUnicodeText(content.ExtractedText)
		default:
			return writeUnicodeText(content.Text)
		}
	})
}

func readUnicodeText() (string, bool) {
	data, ok := readGlobalFormat(cfText)
	if !ok {
		return "", false
	}
	u16 := make([]uint16, len(data)/2)
	for i := range u16 {
		u16[i] = uint16(data[2*i]) | uint16(data[2*i+1])<<8
	}
	return syscall.UTF16ToString(u16), true
}

func writeUnicodeText(s string) error {
	u16, err := syscall.UTF16FromString(s)
	if err != nil {
		return err
	}
	buf := make([]byte, len(u16)*2)
	for i, c := range u16 {
		buf[2*i] = byte(c)
		buf[2*i+1] = byte(c >> 8)
	}
	return writeGlobalFormat(cfText, buf)
}

func readGlobalFormat(format uint32) ([]byte, bool) {
	avail, _, _ := procIsClipboardFormatOK.Call(uintptr(format))
	if avail == 0 {
		return nil, false
	}
	h, _, _ := procGetClipboardData.Call(uintptr(format))
	if h == 0 {
		return nil, false
	}
	ptr, _, _ := procGlobalLock.Call(h)
	if ptr == 0 {
		return nil, false
	}
	defer procGlobalUnlock.Call(h)

	size := globalSize(h)
	if size == 0 {
		return nil, false
	}
	buf := make([]byte, size)
	copy(buf, unsafe.Slice((*byte)(unsafe.Pointer(ptr)), size))
	return buf, true
}

func writeGlobalFormat(format uint32, data []byte) error {
	h, _, _ := procGlobalAlloc.Call(gmemMoveable, uintptr(len(data)))
	if h == 0 {
		return fmt.Errorf("windows clipboard: GlobalAlloc failed")
	}
	ptr, _, _ := procGlobalLock.Call(h)
	if ptr == 0 {
		return fmt.Errorf("windows clipboard: GlobalLock failed")
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), len(data)), data)
	procGlobalUnlock.Call(h)

	r, _, _ := procSetClipboardData.Call(uintptr(format), h)
	if r == 0 {
		return fmt.Errorf("windows clipboard: SetClipboardData failed for format %d", format)
	}
	return nil
}

func globalSize(h uintptr) uintptr {
	proc := kernel32.NewProc("GlobalSize")
	size, _, _ := proc.Call(h)
	return size
}

func readHDrop() ([]string, bool) {
	h, _, _ := procGetClipboardData.Call(uintptr(cfHDrop))
	if h == 0 {
		return nil, false
	}
	count, _, _ := procDragQueryFile.Call(h, 0xFFFFFFFF, 0, 0)
	if count == 0 {
		return nil, false
	}
	out := make([]string, 0, count)
	for i := uintptr(0); i < count; i++ {
		buf := make([]uint16, 1024)
		n, _, _ := procDragQueryFile.Call(h, i, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
		if n == 0 {
			continue
		}
		out = append(out, syscall.UTF16ToString(buf[:n]))
	}
	return out, len(out) > 0
}

// writeHDrop does not build a DROPFILES block; it returns an error for
// every call, so writing a file-list clip to the clipboard (including
// restoring one) fails on windows.
func writeHDrop(paths []string) error {
	return fmt.Errorf("windows clipboard: writing CF_HDROP is not supported")
}

// parseCFHTML strips the "HTML Format" header (Version/StartHTML/EndHTML/
// StartFragment/EndFragment key-value preamble) leaving the HTML fragment.
func parseCFHTML(data []byte) string {
	s := string(data)
	const marker = "StartFragment:"
	startIdx := indexAfterKey(s, "StartFragment:")
	endIdx := indexAfterKey(s, "EndFragment:")
	if startIdx < 0 || endIdx < 0 || endIdx > len(s) || startIdx > endIdx {
		return s
	}
	_ = marker
	return s[startIdx:endIdx]
}

func indexAfterKey(s, key string) int {
	i := indexOf(s, key)
	if i < 0 {
		return -1
	}
	i += len(key)
	j := i
	for j < len(s) && s[j] != '\r' && s[j] != '\n' {
		j++
	}
	n := parseUint(s[i:j])
	return n
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func parseUint(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// buildCFHTML wraps a fragment in the "HTML Format" clipboard preamble that
// Windows consumers (Word, Outlook, browsers) expect.
func buildCFHTML(fragment string) string {
	const header = "Version:0.9\r\nStartHTML:%08d\r\nEndHTML:%08d\r\nStartFragment:%08d\r\nEndFragment:%08d\r\n"
	const startMarker = "<!--StartFragment-->"
	const endMarker = "<!--EndFragment-->"
	body := "<html><body>" + startMarker + fragment + endMarker + "</body></html>"

	headerLen := len(fmt.Sprintf(header, 0, 0, 0, 0))
	startHTML := headerLen
	startFragment := startHTML + indexOf(body, startMarker) + len(startMarker)
	endFragment := startHTML + indexOf(body, endMarker)
	endHTML := startHTML + len(body)

	return fmt.Sprintf(header, startHTML, endHTML, startFragment, endFragment) + body
}
