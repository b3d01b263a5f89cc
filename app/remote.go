package app

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/andromeda/focus/internal/apperr"
	"github.com/andromeda/focus/timer"
	"github.com/andromeda/focus/widget"
)

var (
	errMissingAction = &apperr.Error{
		Message: "specify an action: pause, resume or complete",
	}

	errVisibilityArg = &apperr.Error{
		Message: "invalid visibility %q: use on, off or toggle",
	}
)

// nextVisibility resolves the visibility command argument against the
// current flag. No argument toggles.
func nextVisibility(arg string, current bool) (bool, error) {
	switch strings.ToLower(arg) {
	case "", "toggle":
		return !current, nil
	case "on", "show":
		return true, nil
	case "off", "hide":
		return false, nil
	default:
		return false, errVisibilityArg.Fmt(arg)
	}
}

// widgetAction shows a compact view of the flow owned by another focus
// process.
func widgetAction(ctx *cli.Context) error {
	e, err := setup(ctx, false)
	if err != nil {
		return err
	}

	defer e.Close()

	area, err := e.area()
	if err != nil {
		return err
	}

	defer area.Close()

	m := widget.New(timer.NewBridge(area), timer.NewRelay(area))
	defer m.Close()

	_, err = tea.NewProgram(m, tea.WithContext(ctx.Context)).Run()

	return err
}

// statusAction prints a one-line summary of the shared flow state.
func statusAction(ctx *cli.Context) error {
	e, err := setup(ctx, false)
	if err != nil {
		return err
	}

	defer e.Close()

	area, err := e.area()
	if err != nil {
		return err
	}

	defer area.Close()

	fmt.Println(widget.Line(timer.NewBridge(area).Read(), time.Now()))

	return nil
}

// actionAction relays a control action to the process that owns the flow.
func actionAction(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errMissingAction
	}

	kind, err := timer.ParseActionKind(ctx.Args().First())
	if err != nil {
		return err
	}

	e, err := setup(ctx, false)
	if err != nil {
		return err
	}

	defer e.Close()

	area, err := e.area()
	if err != nil {
		return err
	}

	defer area.Close()

	if err := timer.NewRelay(area).Send(kind); err != nil {
		return err
	}

	pterm.Success.Printfln("Sent %s", kind)

	return nil
}

// visibilityAction flips the widget visibility flag shared by every
// terminal.
func visibilityAction(ctx *cli.Context) error {
	e, err := setup(ctx, false)
	if err != nil {
		return err
	}

	defer e.Close()

	area, err := e.area()
	if err != nil {
		return err
	}

	defer area.Close()

	bridge := timer.NewBridge(area)

	visible, err := nextVisibility(ctx.Args().First(), bridge.WidgetVisible())
	if err != nil {
		return err
	}

	if err := bridge.SetWidgetVisible(visible); err != nil {
		return err
	}

	if visible {
		pterm.Success.Println("Widget shown")
	} else {
		pterm.Success.Println("Widget hidden")
	}

	return nil
}
