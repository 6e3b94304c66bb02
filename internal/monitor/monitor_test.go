package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azure06/clipsx/internal/types"
)

type mockAdapter struct {
	content      *types.ClipboardContent
	changeCount  int64
	activeApp    string
	readCalls    int
}

func (m *mockAdapter) Read() (*types.ClipboardContent, error) {
	m.readCalls++
	return m.content, nil
}

func (m *mockAdapter) Write(content *types.ClipboardContent) error {
	m.content = content
	return nil
}

func (m *mockAdapter) ChangeCounter() int64 { return m.changeCount }
func (m *mockAdapter) ActiveAppName() string { return m.activeApp }

func TestMonitor_HTMLAndTextSamePlainDedup(t *testing.T) {
	mock := &mockAdapter{content: &types.ClipboardContent{Kind: types.KindHTML, Markup: "<b>Hello</b>", Plain: "Hello"}}
	m := New(mock, false)

	result, err := m.Check()
	require.NoError(t, err)
	assert.True(t, result.Changed)

	mock.content = &types.ClipboardContent{Kind: types.KindText, Text: "Hello"}
	result, err = m.Check()
	require.NoError(t, err)
	assert.False(t, result.Changed, "same plain text via different format should be treated as unchanged")
}

func TestMonitor_NotifyWroteSuppressesNextTick(t *testing.T) {
	mock := &mockAdapter{}
	m := New(mock, false)

	written := &types.ClipboardContent{Kind: types.KindText, Text: "Hello"}
	m.NotifyWrote(written)
	mock.content = written

	result, err := m.Check()
	require.NoError(t, err)
	assert.False(t, result.Changed, "notify_wrote should suppress the next tick for the same content")
}

func TestMonitor_RTFAndTextSamePlainDedup(t *testing.T) {
	mock := &mockAdapter{content: &types.ClipboardContent{Kind: types.KindRTF, Markup: `{\rtf1 Hello}`, Plain: "Hello"}}
	m := New(mock, false)

	result, err := m.Check()
	require.NoError(t, err)
	assert.True(t, result.Changed)

	mock.content = &types.ClipboardContent{Kind: types.KindText, Text: "Hello"}
	result, err = m.Check()
	require.NoError(t, err)
	assert.False(t, result.Changed)
}

func TestMonitor_UnchangedInitiallyOnEmptyClipboard(t *testing.T) {
	mock := &mockAdapter{}
	m := New(mock, false)

	result, err := m.Check()
	require.NoError(t, err)
	assert.False(t, result.Changed)
}

func TestMonitor_DetectsChangeThenSuppressesDuplicate(t *testing.T) {
	mock := &mockAdapter{content: &types.ClipboardContent{Kind: types.KindText, Text: "hello"}}
	m := New(mock, false)

	result, err := m.Check()
	require.NoError(t, err)
	require.True(t, result.Changed)
	assert.Equal(t, "hello", result.Content.Text)

	result, err = m.Check()
	require.NoError(t, err)
	assert.False(t, result.Changed)

	mock.content = &types.ClipboardContent{Kind: types.KindText, Text: "world"}
	result, err = m.Check()
	require.NoError(t, err)
	require.True(t, result.Changed)
	assert.Equal(t, "world", result.Content.Text)
}

func TestMonitor_ChangeCounterFastPathSkipsRead(t *testing.T) {
	mock := &mockAdapter{content: &types.ClipboardContent{Kind: types.KindText, Text: "hello"}, changeCount: 5}
	m := New(mock, true)

	_, err := m.Check()
	require.NoError(t, err)
	assert.Equal(t, 1, mock.readCalls)

	_, err = m.Check()
	require.NoError(t, err)
	assert.Equal(t, 1, mock.readCalls, "unchanged change counter should skip the read entirely")

	mock.changeCount = 6
	_, err = m.Check()
	require.NoError(t, err)
	assert.Equal(t, 2, mock.readCalls)
}
