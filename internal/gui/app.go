package gui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"github.com/rs/zerolog"

	"codeberg.org/snonux/indictrans/internal"
	"codeberg.org/snonux/indictrans/internal/anki"
	"codeberg.org/snonux/indictrans/internal/history"
	"codeberg.org/snonux/indictrans/internal/language"
	"codeberg.org/snonux/indictrans/internal/processor"
)

// Backend is what the GUI needs from the translation layer
type Backend interface {
	Translate(ctx context.Context, req processor.Request) (history.Entry, error)
	History() []history.Entry
	ClearHistory()
	Models() []string
	DefaultModel() string
	DefaultLanguages() []language.Language
}

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	textInput        *SourceEntry
	modelSelect      *widget.Select
	languageGroup    *widget.CheckGroup
	translateButton  *ttwidget.Button
	clearButton      *ttwidget.Button
	exportButton     *ttwidget.Button
	resultsBox       *fyne.Container
	historyAccordion *widget.Accordion
	statusLabel      *widget.Label
	logViewer        *LogViewer

	// State management
	translating bool

	// Configuration
	config *Config

	// Background processing
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// Config holds GUI application configuration
type Config struct {
	Backend Backend
	Logger  zerolog.Logger
	// Logs is shown in the log tab when set
	Logs *LogBuffer
}

// New creates a new GUI application
func New(config *Config) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	myApp := app.NewWithID("org.codeberg.snonux.indictrans")

	a := &Application{
		app:    myApp,
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}

	a.setupUI()
	a.refreshHistory()

	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("IndicTrans v%s - English to Indian Languages", internal.Version))
	a.window.Resize(fyne.NewSize(960, 720))

	// Sidebar: model and tips
	a.modelSelect = widget.NewSelect(a.config.Backend.Models(), nil)
	a.modelSelect.SetSelected(a.config.Backend.DefaultModel())

	tips := widget.NewLabel("Tips:\n- Keep input concise for faster results.\n- Choose fewer languages to reduce latency.")
	tips.Wrapping = fyne.TextWrapWord

	keyNote := widget.NewLabel("Set your API key in OPENAI_API_KEY (or GEMINI_API_KEY) before starting.")
	keyNote.Wrapping = fyne.TextWrapWord

	sidebar := container.NewVBox(
		widget.NewLabelWithStyle("Settings", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Model"),
		a.modelSelect,
		keyNote,
		widget.NewSeparator(),
		tips,
	)

	// Input section
	a.textInput = NewSourceEntry()
	a.textInput.SetPlaceHolder("Type or paste English text here...")
	a.textInput.SetMinRowsVisible(6)
	a.textInput.SetOnSubmit(a.onTranslate)
	a.textInput.SetOnEscape(func() {
		a.window.Canvas().Unfocus()
	})

	a.languageGroup = widget.NewCheckGroup(language.Names(), nil)
	a.languageGroup.Horizontal = true
	a.languageGroup.SetSelected(namesOf(a.config.Backend.DefaultLanguages()))

	// Tooltips are set after the tooltip layer is created
	a.translateButton = ttwidget.NewButtonWithIcon("Translate", theme.ConfirmIcon(), a.onTranslate)
	a.translateButton.Importance = widget.HighImportance
	a.clearButton = ttwidget.NewButtonWithIcon("Clear", theme.DeleteIcon(), a.onClear)
	a.exportButton = ttwidget.NewButtonWithIcon("Export", theme.DownloadIcon(), a.onExport)

	buttons := container.New(layout.NewGridLayout(3), a.translateButton, a.clearButton, a.exportButton)

	inputSection := container.NewVBox(
		widget.NewLabel("Enter English text"),
		a.textInput,
		widget.NewLabel("Select target languages"),
		a.languageGroup,
		buttons,
	)

	// Results and history
	a.resultsBox = container.NewVBox()
	a.historyAccordion = widget.NewAccordion()

	output := container.NewVScroll(container.NewVBox(
		widget.NewLabelWithStyle("Translations", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		a.resultsBox,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("History", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		a.historyAccordion,
	))

	a.statusLabel = widget.NewLabel("Ready")

	mainPanel := container.NewBorder(inputSection, a.statusLabel, nil, nil, output)

	split := container.NewHSplit(container.NewPadded(sidebar), mainPanel)
	split.Offset = 0.25

	var content fyne.CanvasObject = split
	if a.config.Logs != nil {
		a.logViewer = NewLogViewer(a.config.Logs)
		content = container.NewAppTabs(
			container.NewTabItemWithIcon("Translate", theme.DocumentIcon(), split),
			container.NewTabItemWithIcon("Log", theme.ListIcon(), a.logViewer),
		)
	}

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))

	// Now that tooltip layer is created, set all tooltips
	a.setupTooltips()

	a.window.SetOnClosed(func() {
		a.cancel()
		a.wg.Wait()
	})

	// Set up keyboard shortcuts
	a.setupKeyboardShortcuts()
}

// Run starts the GUI application
func (a *Application) Run() {
	a.window.ShowAndRun()
}

// onTranslate translates the input into the checked languages in the
// background
func (a *Application) onTranslate() {
	a.mu.Lock()
	if a.translating {
		a.mu.Unlock()
		return
	}
	a.translating = true
	a.mu.Unlock()

	req := processor.Request{
		Text:      a.textInput.Text,
		Model:     a.modelSelect.Selected,
		Languages: selectionFromNames(a.languageGroup.Selected),
	}

	// Reject invalid input before showing progress
	if strings.TrimSpace(req.Text) == "" || len(req.Languages) == 0 {
		a.setTranslating(false)
		_, err := a.config.Backend.Translate(a.ctx, req)
		a.showWarning(err)
		return
	}

	a.setUIEnabled(false)
	a.updateStatus(fmt.Sprintf("Translating into %d language(s)...", len(req.Languages)))

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		entry, err := a.config.Backend.Translate(a.ctx, req)

		fyne.Do(func() {
			a.setTranslating(false)
			a.setUIEnabled(true)

			if err != nil {
				a.showWarning(err)
				return
			}

			a.showResult(entry)
			a.refreshHistory()
			a.updateStatus(statusFor(entry))
		})
	}()
}

// onClear drops the history and the shown results
func (a *Application) onClear() {
	a.config.Backend.ClearHistory()
	a.resultsBox.Objects = nil
	a.resultsBox.Refresh()
	a.refreshHistory()
	a.updateStatus("History cleared")
}

// onExport saves the successful translations of the history as Anki deck
// or CSV file
func (a *Application) onExport() {
	cards := anki.CardsFromEntries(a.config.Backend.History())
	if len(cards) == 0 {
		dialog.ShowInformation("Export", "There are no translations to export yet.", a.window)
		return
	}

	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if writer == nil {
			return // cancelled
		}
		path := writer.URI().Path()
		writer.Close()

		if _, err := anki.Export(path, cards, anki.ExportOptions{}); err != nil {
			a.config.Logger.Error().Err(err).Str("path", path).Msg("export failed")
			dialog.ShowError(err, a.window)
			return
		}
		a.config.Logger.Info().Str("path", path).Int("cards", len(cards)).Msg("history exported")
		a.updateStatus(fmt.Sprintf("Exported %d card(s) to %s", len(cards), path))
	}, a.window)
	save.SetFileName("indictrans.apkg")
	save.SetFilter(storage.NewExtensionFileFilter([]string{".apkg", ".csv"}))
	save.Show()
}

// showResult lists one outcome per language in selection order
func (a *Application) showResult(entry history.Entry) {
	objects := make([]fyne.CanvasObject, 0, entry.Result.Len())

	for _, o := range entry.Result.Outcomes {
		name := widget.NewLabelWithStyle(o.Language.String(), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

		text := widget.NewLabel(o.Render())
		text.Wrapping = fyne.TextWrapWord

		row := container.NewBorder(name, nil, nil, nil, text)
		if o.OK() {
			copyText := o.Text
			copyButton := ttwidget.NewButtonWithIcon("", theme.ContentCopyIcon(), func() {
				a.window.Clipboard().SetContent(copyText)
				a.updateStatus("Copied to clipboard")
			})
			copyButton.SetToolTip(fmt.Sprintf("Copy %s translation", o.Language))
			row = container.NewBorder(name, nil, nil, copyButton, text)
		} else {
			text.Importance = widget.DangerImportance
		}

		objects = append(objects, row)
	}

	a.resultsBox.Objects = objects
	a.resultsBox.Refresh()
}

// refreshHistory rebuilds the history accordion from the backend
func (a *Application) refreshHistory() {
	entries := visibleHistory(a.config.Backend.History())

	items := make([]*widget.AccordionItem, 0, len(entries))
	for i, e := range entries {
		detail := widget.NewLabel(historyDetail(e))
		detail.Wrapping = fyne.TextWrapWord
		items = append(items, widget.NewAccordionItem(e.Label(i+1), detail))
	}

	a.historyAccordion.Items = items
	a.historyAccordion.Refresh()
}

// Helper methods
func (a *Application) setTranslating(v bool) {
	a.mu.Lock()
	a.translating = v
	a.mu.Unlock()
}

func (a *Application) setUIEnabled(enabled bool) {
	if enabled {
		a.translateButton.Enable()
		a.clearButton.Enable()
		a.exportButton.Enable()
		a.modelSelect.Enable()
		a.languageGroup.Enable()
	} else {
		a.translateButton.Disable()
		a.clearButton.Disable()
		a.exportButton.Disable()
		a.modelSelect.Disable()
		a.languageGroup.Disable()
	}
}

func (a *Application) updateStatus(message string) {
	a.statusLabel.SetText(message)
}

func (a *Application) showWarning(err error) {
	if err == nil {
		return
	}
	message := warningFor(err)
	dialog.ShowInformation("Warning", message, a.window)
	a.updateStatus(message)
	a.config.Logger.Debug().Err(err).Msg("request rejected")
}

// setupTooltips sets up all tooltips after the tooltip layer has been created
func (a *Application) setupTooltips() {
	a.translateButton.SetToolTip("Translate (Ctrl+Enter)")
	a.clearButton.SetToolTip("Clear history (Ctrl+L)")
	a.exportButton.SetToolTip("Export history as Anki deck (.apkg) or CSV")
}

func (a *Application) setupKeyboardShortcuts() {
	translate := &desktop.CustomShortcut{KeyName: fyne.KeyReturn, Modifier: fyne.KeyModifierShortcutDefault}
	a.window.Canvas().AddShortcut(translate, func(fyne.Shortcut) {
		if !a.translateButton.Disabled() {
			a.onTranslate()
		}
	})

	clearShortcut := &desktop.CustomShortcut{KeyName: fyne.KeyL, Modifier: fyne.KeyModifierShortcutDefault}
	a.window.Canvas().AddShortcut(clearShortcut, func(fyne.Shortcut) {
		if !a.clearButton.Disabled() {
			a.onClear()
		}
	})
}
