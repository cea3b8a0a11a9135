package commands

import (
	"fmt"

	"github.com/ironsheep/raster-bridge/internal/encoding"
	"github.com/ironsheep/raster-bridge/internal/exchange"
	"github.com/ironsheep/raster-bridge/internal/layout"
	"github.com/ironsheep/raster-bridge/internal/raster"
)

// regionKeywords are the inclusive sub-cube bounds of the export and copy
// commands.
var regionKeywords = []Param{
	{Name: "HEIGHT_START", Type: IntType, Description: "First row."},
	{Name: "HEIGHT_END", Type: IntType, Description: "Last row, inclusive."},
	{Name: "WIDTH_START", Type: IntType, Description: "First column."},
	{Name: "WIDTH_END", Type: IntType, Description: "Last column, inclusive."},
	{Name: "BANDS_START", Type: IntType, Description: "First band."},
	{Name: "BANDS_END", Type: IntType, Description: "Last band, inclusive."},
}

var extentOutputs = []Param{
	{Name: "HEIGHT_OUT", Type: IntType, Output: true, Description: "Rows in the result."},
	{Name: "WIDTH_OUT", Type: IntType, Output: true, Description: "Columns in the result."},
	{Name: "BANDS_OUT", Type: IntType, Output: true, Description: "Bands in the result."},
}

func params(groups ...[]Param) []Param {
	var out []Param
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func arrayCommands() []Command {
	cmds := []Command{
		{
			Name:        "ARRAY_TO_IDL",
			Description: "Returns a raster element, or a sub-cube of it, as an array in exchange order.",
			Keywords:    params([]Param{datasetKeyword}, regionKeywords, extentOutputs),
			Handler:     arrayToInterpreter,
		},
		{
			Name:        "ARRAY_TO_OPTICKS",
			Description: "Stores an array in the host: as a layer of the current view, in a new window, or over an existing element.",
			MinArgs:     1,
			MaxArgs:     2,
			Args: []Param{
				{Name: "array", Type: ArrayType, Description: "The data, in exchange order for INTERLEAVE."},
				{Name: "element_name", Type: StringType, Description: "Name of the new element, or of the child to overwrite."},
			},
			Keywords: []Param{
				datasetKeyword,
				{Name: "HEIGHT_END", Type: IntType, Description: "Row count."},
				{Name: "WIDTH_END", Type: IntType, Description: "Column count."},
				{Name: "BANDS_END", Type: IntType, Description: "Band count."},
				{Name: "HEIGHT_START", Type: IntType, Description: "First row written when overwriting."},
				{Name: "WIDTH_START", Type: IntType, Description: "First column written when overwriting."},
				{Name: "BANDS_START", Type: IntType, Description: "First band written when overwriting."},
				{Name: "INTERLEAVE", Type: StringType, Description: "BSQ, BIL or BIP. Defaults to BSQ."},
				{Name: "NEW_WINDOW", Type: FlagType, Description: "Create a top-level element in a new window."},
				{Name: "OVERWRITE", Type: FlagType, Description: "Write into an existing element of the same data type."},
				{Name: "ON_DISK", Type: FlagType, Description: "Create the element without in-memory storage."},
				{Name: "UNITS", Type: StringType, Description: "Units of the new element."},
			},
			Handler: arrayToHost,
		},
		{
			Name:        "CHANGE_DATA_TYPE",
			Description: "Copies a raster element converted to another data type.",
			MinArgs:     0,
			MaxArgs:     1,
			Args: []Param{
				{Name: "source", Type: StringType, Description: "Element reference. Defaults to the primary raster element."},
			},
			Keywords: []Param{
				{Name: "TYPE", Type: StringType, Description: "Target data type, such as uint8, int16 or float64."},
				{Name: "NAME", Type: StringType, Description: "Name of the copy. Defaults to <name>_<type>."},
			},
			Handler: changeDataType,
		},
		{
			Name:        "COPY_DATASET",
			Description: "Copies a raster element, or a sub-cube of it, into a new top-level element.",
			MinArgs:     0,
			MaxArgs:     1,
			Args: []Param{
				{Name: "source", Type: StringType, Description: "Element reference. Defaults to the primary raster element."},
			},
			Keywords: params([]Param{{Name: "NAME", Type: StringType, Description: "Name of the copy."}}, regionKeywords),
			Handler:  copyDataset,
		},
		{
			Name:        "OPTICKS_ARRAY_DIMENSIONS",
			Description: "Reports the shape and storage of a raster element.",
			Keywords: params([]Param{datasetKeyword}, extentOutputs, []Param{
				{Name: "INTERLEAVE_OUT", Type: StringType, Output: true, Description: "BSQ, BIL or BIP."},
				{Name: "BPE_OUT", Type: IntType, Output: true, Description: "Bytes per element."},
				{Name: "TYPE_OUT", Type: StringType, Output: true, Description: "Exchange data type."},
			}),
			Handler: arrayDimensions,
		},
	}

	axes := []struct {
		suffix string
		axis   layout.Axis
	}{
		{"ROWS", layout.Rows},
		{"COLUMNS", layout.Columns},
		{"BANDS", layout.Bands},
	}
	kinds := []struct {
		prefix string
		kind   exchange.NumberKind
		what   string
	}{
		{"ONDISK", exchange.OnDiskNumbers, "on-disk"},
		{"ORIGINAL", exchange.OriginalNumbers, "original"},
	}
	for _, k := range kinds {
		for _, a := range axes {
			cmds = append(cmds, Command{
				Name:        fmt.Sprintf("OPTICKS_ARRAY_%s_%s", k.prefix, a.suffix),
				Description: fmt.Sprintf("Returns the %s numbers of the %s of a raster element.", k.what, a.axis),
				Keywords:    []Param{datasetKeyword},
				Handler:     numbersHandler(a.axis, k.kind),
			})
		}
	}
	return cmds
}

// regionOf reads the region keywords. It returns nil when none is set.
func regionOf(c *Call) *raster.Region {
	var r raster.Region
	set := false
	bound := func(name string) raster.Bound {
		if v, ok := c.Keyword(name); ok {
			if i, ok := v.AsInt(); ok {
				set = true
				return raster.At(int(i))
			}
		}
		return raster.Bound{}
	}
	r.RowStart, r.RowEnd = bound("HEIGHT_START"), bound("HEIGHT_END")
	r.ColStart, r.ColEnd = bound("WIDTH_START"), bound("WIDTH_END")
	r.BandStart, r.BandEnd = bound("BANDS_START"), bound("BANDS_END")
	if !set {
		return nil
	}
	return &r
}

func arrayToInterpreter(env *Env, c *Call) (Value, error) {
	exp, err := env.Exchange.ExportArray(c.Text("DATASET", ""), regionOf(c))
	if err != nil {
		return Null(), err
	}
	c.SetOutput("HEIGHT_OUT", Int(int64(exp.Rows)))
	c.SetOutput("WIDTH_OUT", Int(int64(exp.Cols)))
	c.SetOutput("BANDS_OUT", Int(int64(exp.Bands)))
	return ArrayOf(exp.Array), nil
}

func arrayToHost(env *Env, c *Call) (Value, error) {
	arr, _ := c.Arg(0).AsArray()
	req := exchange.ImportRequest{
		Array:     arr,
		Name:      c.ArgString(1),
		Dataset:   c.Text("DATASET", ""),
		Rows:      c.Int("HEIGHT_END", 0),
		Cols:      c.Int("WIDTH_END", 0),
		Bands:     c.Int("BANDS_END", 0),
		RowStart:  c.Int("HEIGHT_START", 0),
		ColStart:  c.Int("WIDTH_START", 0),
		BandStart: c.Int("BANDS_START", 0),
		OnDisk:    c.Flag("ON_DISK"),
		Units:     c.Text("UNITS", ""),
	}
	if s := c.Text("INTERLEAVE", ""); s != "" {
		il, err := layout.ParseInterleave(s)
		if err != nil {
			return Null(), fmt.Errorf("%w: INTERLEAVE must be one of BSQ, BIL or BIP", ErrArgumentInvalid)
		}
		req.Interleave = il
	}
	switch newWindow, overwrite := c.Flag("NEW_WINDOW"), c.Flag("OVERWRITE"); {
	case newWindow && overwrite:
		return Null(), fmt.Errorf("%w: NEW_WINDOW and OVERWRITE cannot be combined", ErrArgumentInvalid)
	case newWindow:
		req.Mode = exchange.CreateNewWindow
	case overwrite:
		req.Mode = exchange.OverwriteExisting
	default:
		req.Mode = exchange.AttachToCurrentView
	}
	_, err := env.Exchange.ImportArray(req)
	return status(err)
}

func changeDataType(env *Env, c *Call) (Value, error) {
	name := c.Text("TYPE", "")
	if name == "" {
		return Null(), fmt.Errorf("%w: TYPE is required", ErrArgumentInvalid)
	}
	t, err := encoding.ParseType(name)
	if err != nil {
		return Null(), err
	}
	enc, err := encoding.EncodingOf(t)
	if err != nil {
		return Null(), err
	}
	e, err := env.Exchange.ChangeDataType(c.ArgString(0), enc, c.Text("NAME", ""))
	if err != nil {
		return Null(), err
	}
	return String(e.FullName()), nil
}

func copyDataset(env *Env, c *Call) (Value, error) {
	e, err := env.Exchange.CopyElement(c.ArgString(0), regionOf(c), c.Text("NAME", ""))
	if err != nil {
		return Null(), err
	}
	return String(e.FullName()), nil
}

func arrayDimensions(env *Env, c *Call) (Value, error) {
	d, err := env.Exchange.Dimensions(c.Text("DATASET", ""))
	if err != nil {
		return Null(), err
	}
	c.SetOutput("HEIGHT_OUT", Int(int64(d.Rows)))
	c.SetOutput("WIDTH_OUT", Int(int64(d.Cols)))
	c.SetOutput("BANDS_OUT", Int(int64(d.Bands)))
	c.SetOutput("INTERLEAVE_OUT", String(d.Interleave.String()))
	c.SetOutput("BPE_OUT", Int(int64(d.BytesPerElement)))
	if t, err := encoding.ExchangeTypeOf(d.Encoding); err == nil {
		c.SetOutput("TYPE_OUT", String(t.String()))
	} else {
		c.SetOutput("TYPE_OUT", String(d.Encoding.String()))
	}
	return String(Success), nil
}

func numbersHandler(axis layout.Axis, kind exchange.NumberKind) Handler {
	return func(env *Env, c *Call) (Value, error) {
		numbers, err := env.Exchange.Numbers(c.Text("DATASET", ""), axis, kind)
		if err != nil {
			return Null(), err
		}
		data := make(encoding.Int32Slice, len(numbers))
		for i, n := range numbers {
			data[i] = int32(n)
		}
		return ArrayOf(encoding.Array{Dims: []int{len(data)}, Data: data}), nil
	}
}
