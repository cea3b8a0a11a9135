package commands

func gpuCommands() []Command {
	filterArg := []Param{{Name: "filter_name", Type: StringType, Description: "Filter name, such as Edge Detection."}}
	layerArg := []Param{{Name: "layer_name", Type: StringType, Description: "Layer name. Defaults to the layer showing the primary raster element."}}
	return []Command{
		{
			Name:        "ENABLE_FILTER",
			Description: "Turns on a display filter of a GPU-displayed raster layer.",
			MinArgs:     1,
			MaxArgs:     1,
			Args:        filterArg,
			Keywords:    []Param{layerKeyword, windowKeyword},
			Handler:     filterHandler(true),
		},
		{
			Name:        "DISABLE_FILTER",
			Description: "Turns off a display filter of a GPU-displayed raster layer.",
			MinArgs:     1,
			MaxArgs:     1,
			Args:        filterArg,
			Keywords:    []Param{layerKeyword, windowKeyword},
			Handler:     filterHandler(false),
		},
		{
			Name:        "ENABLE_GPU",
			Description: "Displays a raster layer through the GPU, which filters need.",
			MaxArgs:     1,
			Args:        layerArg,
			Keywords:    []Param{windowKeyword},
			Handler:     gpuHandler(true),
		},
		{
			Name:        "DISABLE_GPU",
			Description: "Stops GPU display of a raster layer. Its filters are dropped.",
			MaxArgs:     1,
			Args:        layerArg,
			Keywords:    []Param{windowKeyword},
			Handler:     gpuHandler(false),
		},
	}
}

func filterHandler(on bool) Handler {
	return func(env *Env, c *Call) (Value, error) {
		l, err := rasterLayer(env, c)
		if err != nil {
			return Null(), err
		}
		if on {
			return status(l.EnableFilter(c.ArgString(0)))
		}
		return status(l.DisableFilter(c.ArgString(0)))
	}
}

func gpuHandler(on bool) Handler {
	return func(env *Env, c *Call) (Value, error) {
		l, err := rasterLayerNamed(env, c, c.ArgString(0))
		if err != nil {
			return Null(), err
		}
		l.EnableGpuImage(on)
		return String(Success), nil
	}
}
