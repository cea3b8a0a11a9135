package commands

import "fmt"

func windowCommands() []Command {
	target := []Param{windowKeyword, typeKeyword}
	return []Command{
		{
			Name:        "CLOSE_WINDOW",
			Description: "Closes a window. Elements no other window shows are destroyed with it.",
			Keywords:    target,
			Handler:     closeWindow,
		},
		{
			Name:        "GET_WINDOW_LABEL",
			Description: "Returns the label shown in a window's title bar.",
			Keywords:    target,
			Handler:     getWindowLabel,
		},
		{
			Name:        "SET_WINDOW_LABEL",
			Description: "Sets the label shown in a window's title bar.",
			MinArgs:     1,
			MaxArgs:     1,
			Args:        []Param{{Name: "label", Type: StringType, Description: "New label."}},
			Keywords:    target,
			Handler:     setWindowLabel,
		},
		{
			Name:        "GET_WINDOW_POSITION",
			Description: "Reports the position of a window's top-left corner.",
			Keywords: params(target, []Param{
				{Name: "WIN_POS_X", Type: IntType, Output: true, Description: "Horizontal position."},
				{Name: "WIN_POS_Y", Type: IntType, Output: true, Description: "Vertical position."},
			}),
			Handler: getWindowPosition,
		},
		{
			Name:        "SET_WINDOW_POSITION",
			Description: "Moves a window's top-left corner. An omitted coordinate is left unchanged.",
			Keywords: params(target, []Param{
				{Name: "WIN_POS_X", Type: IntType, Description: "Horizontal position."},
				{Name: "WIN_POS_Y", Type: IntType, Description: "Vertical position."},
			}),
			Handler: setWindowPosition,
		},
		{
			Name:        "REFRESH_DISPLAY",
			Description: "Marks a raster element changed so the views showing it redraw.",
			Routine:     Procedure,
			Keywords:    []Param{datasetKeyword},
			Handler:     refreshDisplay,
		},
	}
}

func closeWindow(env *Env, c *Call) (Value, error) {
	w, err := window(env, c)
	if err != nil {
		return Null(), err
	}
	return status(env.Host.CloseWindow(w))
}

func getWindowLabel(env *Env, c *Call) (Value, error) {
	w, err := window(env, c)
	if err != nil {
		return String(""), err
	}
	return String(w.Label()), nil
}

func setWindowLabel(env *Env, c *Call) (Value, error) {
	w, err := window(env, c)
	if err != nil {
		return Null(), err
	}
	label := c.ArgString(0)
	if label == "" {
		return Null(), fmt.Errorf("%w: label is empty", ErrArgumentInvalid)
	}
	w.SetLabel(label)
	return String(Success), nil
}

func getWindowPosition(env *Env, c *Call) (Value, error) {
	w, err := window(env, c)
	if err != nil {
		return Null(), err
	}
	x, y := w.Position()
	c.SetOutput("WIN_POS_X", Int(int64(x)))
	c.SetOutput("WIN_POS_Y", Int(int64(y)))
	return String(Success), nil
}

func setWindowPosition(env *Env, c *Call) (Value, error) {
	w, err := window(env, c)
	if err != nil {
		return Null(), err
	}
	x, y := w.Position()
	w.SetPosition(c.Int("WIN_POS_X", x), c.Int("WIN_POS_Y", y))
	return String(Success), nil
}

func refreshDisplay(env *Env, c *Call) (Value, error) {
	e, err := env.Exchange.Resolve(c.Text("DATASET", ""))
	if err != nil {
		return Null(), err
	}
	e.UpdateData()
	return Null(), nil
}
