package dom

import (
	"testing"
	"time"

	"go-autofill-automation/internal/pwtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillTextDispatchesEvents(t *testing.T) {
	page := pwtest.NewPage(t)
	require.NoError(t, page.SetContent(`
		<input id="email" type="text">
		<script>
			window.events = [];
			const el = document.getElementById('email');
			el.addEventListener('input', () => window.events.push('input'));
			el.addEventListener('change', () => window.events.push('change'));
		</script>
	`))

	assert.True(t, FillText(page, "#email", "ada@example.com"))

	value, err := page.Locator("#email").InputValue()
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", value)

	events, err := page.Evaluate("() => window.events")
	require.NoError(t, err)
	assert.Contains(t, events, "input")
	assert.Contains(t, events, "change")
}

func TestFillTextMissingElement(t *testing.T) {
	page := pwtest.NewPage(t)
	require.NoError(t, page.SetContent(`<div>no inputs here</div>`))

	assert.False(t, FillText(page, "#missing", "value"))
}

func TestFillSelect(t *testing.T) {
	page := pwtest.NewPage(t)
	require.NoError(t, page.SetContent(`
		<select id="auth">
			<option value="">Select...</option>
			<option value="1">Yes, I am authorized</option>
			<option value="0">No</option>
		</select>
	`))

	//exact value
	assert.True(t, FillSelect(page, "#auth", "0"))
	value, _ := page.Locator("#auth").InputValue()
	assert.Equal(t, "0", value)

	//case-insensitive label substring
	assert.True(t, FillSelect(page, "#auth", "yes"))
	value, _ = page.Locator("#auth").InputValue()
	assert.Equal(t, "1", value)

	//no match leaves the select alone
	assert.False(t, FillSelect(page, "#auth", "maybe"))
}

func TestFillRadio(t *testing.T) {
	page := pwtest.NewPage(t)
	require.NoError(t, page.SetContent(`
		<input type="radio" name="sponsorship" value="yes">
		<input type="radio" name="sponsorship" value="no">
		<input type="radio" name="visa" value="1" data-label="Yes">
	`))

	assert.True(t, FillRadio(page, "sponsorship", "No"))
	checked, err := page.Locator(`input[name="sponsorship"][value="no"]`).IsChecked()
	require.NoError(t, err)
	assert.True(t, checked)

	//data-label match
	assert.True(t, FillRadio(page, "visa", "Yes"))

	assert.False(t, FillRadio(page, "sponsorship", "maybe"))
	assert.False(t, FillRadio(page, "absent-group", "yes"))
}

func TestFillCheckboxIdempotent(t *testing.T) {
	page := pwtest.NewPage(t)
	require.NoError(t, page.SetContent(`
		<input id="current" type="checkbox">
		<script>
			window.changes = 0;
			document.getElementById('current').addEventListener('change', () => window.changes++);
		</script>
	`))

	assert.True(t, FillCheckbox(page, "#current", true))
	assert.True(t, FillCheckbox(page, "#current", true))

	checked, err := page.Locator("#current").IsChecked()
	require.NoError(t, err)
	assert.True(t, checked)

	changes, err := page.Evaluate("() => window.changes")
	require.NoError(t, err)
	assert.EqualValues(t, 1, changes, "repeated set must not re-fire change")
}

func TestUploadFileRejectsNonFileInput(t *testing.T) {
	page := pwtest.NewPage(t)
	require.NoError(t, page.SetContent(`
		<input id="name" type="text">
		<input id="resume" type="file">
	`))

	assert.False(t, UploadFile(page, "#name", []byte("x"), "resume.pdf"))
	assert.True(t, UploadFile(page, "#resume", []byte("%PDF-1.4"), "resume.pdf"))
}

func TestWaitForElement(t *testing.T) {
	page := pwtest.NewPage(t)
	require.NoError(t, page.SetContent(`<div id="present"></div>`))

	assert.NotNil(t, WaitForElement(page, "#present", time.Second))

	start := time.Now()
	assert.Nil(t, WaitForElement(page, "#absent", 500*time.Millisecond))
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 500*time.Millisecond)
	assert.Less(t, elapsed, 3*time.Second)
}

func TestWaitForElementAppearsLate(t *testing.T) {
	page := pwtest.NewPage(t)
	require.NoError(t, page.SetContent(`
		<script>
			setTimeout(() => {
				const el = document.createElement('div');
				el.id = 'late';
				document.body.appendChild(el);
			}, 300);
		</script>
	`))

	assert.NotNil(t, WaitForElement(page, "#late", 2*time.Second))
}

func TestWaitForElements(t *testing.T) {
	page := pwtest.NewPage(t)
	require.NoError(t, page.SetContent(`
		<div class="block"></div>
		<div class="block"></div>
	`))

	assert.Len(t, WaitForElements(page, ".block", 2, time.Second), 2)
	//timeout returns what is there, not nil
	assert.Len(t, WaitForElements(page, ".block", 3, 300*time.Millisecond), 2)
}

func TestClick(t *testing.T) {
	page := pwtest.NewPage(t)
	require.NoError(t, page.SetContent(`
		<button id="go" onclick="window.clicked = (window.clicked || 0) + 1">Go</button>
	`))

	assert.True(t, Click(page, "#go"))
	clicks, err := page.Evaluate("() => window.clicked")
	require.NoError(t, err)
	assert.EqualValues(t, 1, clicks)

	assert.False(t, Click(page, "#missing"))
}

func TestScrollIntoView(t *testing.T) {
	page := pwtest.NewPage(t)
	require.NoError(t, page.SetContent(`
		<div style="height:3000px"></div>
		<button id="below-fold">Submit</button>
	`))

	assert.True(t, ScrollIntoView(page, "#below-fold"))

	scrollY, err := page.Evaluate("() => window.scrollY")
	require.NoError(t, err)
	assert.Greater(t, toFloat(scrollY), 0.0)

	assert.False(t, ScrollIntoView(page, "#missing"))
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func TestMimeFor(t *testing.T) {
	assert.Equal(t, "application/pdf", mimeFor("resume.PDF"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", mimeFor("resume.docx"))
	assert.Equal(t, "application/octet-stream", mimeFor("resume.txt"))
}
