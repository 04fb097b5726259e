package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/key"

	"github.com/example/rasterpad/internal/geom"
)

func press(code key.Code) key.Event {
	return key.Event{Code: code, Direction: key.DirPress}
}

func typeRune(r rune) key.Event {
	return key.Event{Rune: r, Direction: key.DirPress}
}

func placedText(t *testing.T, at geom.Point, s string) *Text {
	t.Helper()
	txt := mustNew(t, KindText).(*Text)
	txt.PointerDown(at, 0)
	txt.PointerUp(at, 0)
	for _, r := range s {
		require.Equal(t, KeyHandled, txt.KeyDown(typeRune(r)))
	}
	return txt
}

func TestTextUnplacedIgnoresInput(t *testing.T) {
	txt := mustNew(t, KindText).(*Text)
	assert.Equal(t, KeyIgnored, txt.KeyDown(typeRune('a')))
	assert.False(t, txt.CommitText("x"))
	assert.False(t, txt.SetPreedit("x", 0))
	assert.False(t, txt.DeleteSurrounding(0, 0))
	assert.False(t, txt.HasAnimation())
	assert.True(t, txt.Empty())
}

func TestTextEditingKeys(t *testing.T) {
	txt := placedText(t, geom.Pt(10, 10), "abc")
	assert.True(t, txt.HasAnimation())
	assert.True(t, txt.HasLiveSelection())
	assert.Equal(t, "abc", txt.Text())

	assert.Equal(t, KeyHandled, txt.KeyDown(press(key.CodeLeftArrow)))
	assert.Equal(t, KeyHandled, txt.KeyDown(press(key.CodeDeleteBackspace)))
	assert.Equal(t, "ac", txt.Text())

	assert.Equal(t, KeyHandled, txt.KeyDown(press(key.CodeHome)))
	assert.Equal(t, KeyIgnored, txt.KeyDown(press(key.CodeHome)))
	assert.Equal(t, KeyIgnored, txt.KeyDown(press(key.CodeLeftArrow)))
	assert.Equal(t, KeyIgnored, txt.KeyDown(press(key.CodeDeleteBackspace)))

	assert.Equal(t, KeyHandled, txt.KeyDown(press(key.CodeDeleteForward)))
	assert.Equal(t, "c", txt.Text())

	assert.Equal(t, KeyHandled, txt.KeyDown(press(key.CodeEnd)))
	assert.Equal(t, KeyIgnored, txt.KeyDown(press(key.CodeDeleteForward)))
	assert.Equal(t, KeyIgnored, txt.KeyDown(press(key.CodeRightArrow)))

	assert.Equal(t, KeyHandled, txt.KeyDown(press(key.CodeReturnEnter)))
	assert.Equal(t, "c\n", txt.Text())
	assert.Equal(t, KeyCancel, txt.KeyDown(press(key.CodeEscape)))

	ctrl := typeRune('z')
	ctrl.Modifiers = key.ModControl
	assert.Equal(t, KeyIgnored, txt.KeyDown(ctrl))
}

func TestTextDeleteSurrounding(t *testing.T) {
	txt := placedText(t, geom.Pt(0, 0), "hello")

	assert.True(t, txt.DeleteSurrounding(-2, 2))
	assert.Equal(t, "hel", txt.Text())
	assert.Equal(t, 3, txt.current)

	assert.False(t, txt.DeleteSurrounding(-10, 1))
	assert.False(t, txt.DeleteSurrounding(0, 1))
	assert.Equal(t, "hel", txt.Text())

	txt.KeyDown(press(key.CodeLeftArrow))
	txt.KeyDown(press(key.CodeLeftArrow))
	assert.True(t, txt.DeleteSurrounding(-1, 2))
	assert.Equal(t, "l", txt.Text())
	assert.Equal(t, 0, txt.current)
}

func TestTextReflowKeepsScale(t *testing.T) {
	txt := placedText(t, geom.Pt(10, 10), "Hi")
	txt.Reflow()
	require.Greater(t, txt.Src.Dx(), 0.0)
	require.Greater(t, txt.Src.Dy(), 0.0)
	assert.Equal(t, geom.Pt(10, 10), txt.Src.Min)
	assert.Equal(t, txt.Src, txt.Dst)

	txt.Dst.Max = txt.Dst.Min.Add(txt.Src.Size().Mul(geom.Pt(2, 2)))
	txt.KeyDown(typeRune('!'))
	txt.Reflow()
	assert.Equal(t, 2*txt.Src.Dx(), txt.Dst.Dx())
	assert.Equal(t, 2*txt.Src.Dy(), txt.Dst.Dy())
}

func TestTextPreedit(t *testing.T) {
	txt := placedText(t, geom.Pt(0, 0), "ab")
	txt.Reflow()
	plain := txt.Src

	require.True(t, txt.SetPreedit("xyz", 1))
	txt.Reflow()
	assert.Greater(t, txt.Src.Dx(), plain.Dx())
	assert.Equal(t, "ab", txt.Text())

	txt.ClearPreedit()
	txt.Reflow()
	assert.Equal(t, plain, txt.Src)
}

func TestTextCopyAndCut(t *testing.T) {
	txt := placedText(t, geom.Pt(5, 5), "note")
	assert.Equal(t, "note", txt.Copy(nil).Text)

	clip, commitAfter := txt.Cut(nil)
	assert.Equal(t, "note", clip.Text)
	assert.False(t, commitAfter)
	assert.Equal(t, "", txt.Text())
	assert.False(t, txt.HasLiveSelection())
	assert.True(t, txt.HasAnimation())
}

func TestTextInsertPlacesAtOrigin(t *testing.T) {
	txt := mustNew(t, KindText).(*Text)
	txt.InsertText("pasted")
	assert.True(t, txt.HasLiveSelection())
	assert.Equal(t, geom.Point{}, txt.Src.Min)
	assert.Equal(t, "pasted", txt.Text())
}

func TestTextCursor(t *testing.T) {
	txt := mustNew(t, KindText).(*Text)
	assert.Equal(t, CursorXTerm, txt.CursorFor(geom.Pt(3, 3), false))
}
