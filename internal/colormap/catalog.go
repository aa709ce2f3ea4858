package colormap

// Provider is a source of colormaps, listed as one named group.
type Provider interface {
	Name() string
	Colormaps() ([]*Colormap, error)
}

// Catalog is a fixed, in-memory Provider.
type Catalog struct {
	name      string
	colormaps []*Colormap
}

// NewCatalog creates a catalog. With withReversed every colormap is followed
// by its reversed variant.
func NewCatalog(name string, withReversed bool, colormaps ...*Colormap) *Catalog {
	c := &Catalog{name: name}
	for _, cm := range colormaps {
		c.colormaps = append(c.colormaps, cm)
		if withReversed {
			c.colormaps = append(c.colormaps, cm.Reversed())
		}
	}
	return c
}

func (c *Catalog) Name() string {
	return c.name
}

func (c *Catalog) Colormaps() ([]*Colormap, error) {
	return c.colormaps, nil
}

// Builtin returns the standard scientific colormaps grouped the way matplotlib
// lists them, each with its reversed variant. The ColorBrewer stops run from
// the low end of the data to the high end.
func Builtin() []Provider {
	return []Provider{
		NewCatalog("Perceptually Uniform Sequential", true,
			mustHex("viridis", "#440154", "#482878", "#3e4989", "#31688e", "#26828e",
				"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"),
			mustHex("plasma", "#0d0887", "#47039f", "#7301a8", "#9c179e", "#bd3786",
				"#d8576b", "#ed7953", "#fa9e3b", "#fdc926", "#f0f921"),
			mustHex("inferno", "#000004", "#1b0c42", "#4b0c6b", "#781c6d", "#a52c60",
				"#cf4446", "#ed6925", "#fb9a06", "#f7d03c", "#fcffa4"),
			mustHex("magma", "#000004", "#180f3e", "#451077", "#721f81", "#9f2f7f",
				"#cd4071", "#f1605d", "#fd9567", "#fec98d", "#fcfdbf"),
			mustHex("cividis", "#00204d", "#00336f", "#39486b", "#575c6d", "#707173",
				"#8a8779", "#a69d75", "#c4b56c", "#e4cf5b", "#ffea46"),
			mustHex("gray", "#000000", "#ffffff"),
		),
		NewCatalog("Sequential", true,
			mustHex("Greys", "#ffffff", "#f0f0f0", "#d9d9d9", "#bdbdbd", "#969696",
				"#737373", "#525252", "#252525", "#000000"),
			mustHex("Purples", "#fcfbfd", "#efedf5", "#dadaeb", "#bcbddc", "#9e9ac8",
				"#807dba", "#6a51a3", "#54278f", "#3f007d"),
			mustHex("Blues", "#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6",
				"#4292c6", "#2171b5", "#08519c", "#08306b"),
			mustHex("Greens", "#f7fcf5", "#e5f5e0", "#c7e9c0", "#a1d99b", "#74c476",
				"#41ab5d", "#238b45", "#006d2c", "#00441b"),
			mustHex("Oranges", "#fff5eb", "#fee6ce", "#fdd0a2", "#fdae6b", "#fd8d3c",
				"#f16913", "#d94801", "#a63603", "#7f2704"),
			mustHex("Reds", "#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a",
				"#ef3b2c", "#cb181d", "#a50f15", "#67000d"),
			mustHex("YlOrBr", "#ffffe5", "#fff7bc", "#fee391", "#fec44f", "#fe9929",
				"#ec7014", "#cc4c02", "#993404", "#662506"),
			mustHex("YlOrRd", "#ffffcc", "#ffeda0", "#fed976", "#feb24c", "#fd8d3c",
				"#fc4e2a", "#e31a1c", "#bd0026", "#800026"),
			mustHex("OrRd", "#fff7ec", "#fee8c8", "#fdd49e", "#fdbb84", "#fc8d59",
				"#ef6548", "#d7301f", "#b30000", "#7f0000"),
			mustHex("PuRd", "#f7f4f9", "#e7e1ef", "#d4b9da", "#c994c7", "#df65b0",
				"#e7298a", "#ce1256", "#980043", "#67001f"),
			mustHex("RdPu", "#fff7f3", "#fde0dd", "#fcc5c0", "#fa9fb5", "#f768a1",
				"#dd3497", "#ae017e", "#7a0177", "#49006a"),
			mustHex("BuPu", "#f7fcfd", "#e0ecf4", "#bfd3e6", "#9ebcda", "#8c96c6",
				"#8c6bb1", "#88419d", "#810f7c", "#4d004b"),
			mustHex("GnBu", "#f7fcf0", "#e0f3db", "#ccebc5", "#a8ddb5", "#7bccc4",
				"#4eb3d3", "#2b8cbe", "#0868ac", "#084081"),
			mustHex("PuBu", "#fff7fb", "#ece7f2", "#d0d1e6", "#a6bddb", "#74a9cf",
				"#3690c0", "#0570b0", "#045a8d", "#023858"),
			mustHex("YlGnBu", "#ffffd9", "#edf8b1", "#c7e9b4", "#7fcdbb", "#41b6c4",
				"#1d91c0", "#225ea8", "#253494", "#081d58"),
			mustHex("PuBuGn", "#fff7fb", "#ece2f0", "#d0d1e6", "#a6bddb", "#67a9cf",
				"#3690c0", "#02818a", "#016c59", "#014636"),
			mustHex("BuGn", "#f7fcfd", "#e5f5f9", "#ccece6", "#99d8c9", "#66c2a4",
				"#41ae76", "#238b45", "#006d2c", "#00441b"),
			mustHex("YlGn", "#ffffe5", "#f7fcb9", "#d9f0a3", "#addd8e", "#78c679",
				"#41ab5d", "#238443", "#006837", "#004529"),
		),
		NewCatalog("Sequential (2)", true,
			mustHex("binary", "#ffffff", "#000000"),
			mustHex("bone", "#000000", "#545474", "#a7c7c7", "#ffffff"),
			mustHex("copper", "#000000", "#ffc77f"),
			mustHex("hot", "#0b0000", "#ff0000", "#ffff00", "#ffffff"),
			mustHex("cool", "#00ffff", "#ff00ff"),
			mustHex("spring", "#ff00ff", "#ffff00"),
			mustHex("summer", "#008066", "#ffff66"),
			mustHex("autumn", "#ff0000", "#ffff00"),
			mustHex("winter", "#0000ff", "#00ff80"),
		),
		NewCatalog("Diverging", true,
			mustHex("PiYG", "#8e0152", "#c51b7d", "#de77ae", "#f1b6da", "#fde0ef",
				"#f7f7f7", "#e6f5d0", "#b8e186", "#7fbc41", "#4d9221", "#276419"),
			mustHex("PRGn", "#40004b", "#762a83", "#9970ab", "#c2a5cf", "#e7d4e8",
				"#f7f7f7", "#d9f0d3", "#a6dba0", "#5aae61", "#1b7837", "#00441b"),
			mustHex("BrBG", "#543005", "#8c510a", "#bf812d", "#dfc27d", "#f6e8c3",
				"#f5f5f5", "#c7eae5", "#80cdc1", "#35978f", "#01665e", "#003c30"),
			mustHex("PuOr", "#7f3b08", "#b35806", "#e08214", "#fdb863", "#fee0b6",
				"#f7f7f7", "#d8daeb", "#b2abd2", "#8073ac", "#542788", "#2d004b"),
			mustHex("RdGy", "#67001f", "#b2182b", "#d6604d", "#f4a582", "#fddbc7",
				"#ffffff", "#e0e0e0", "#bababa", "#878787", "#4d4d4d", "#1a1a1a"),
			mustHex("RdYlBu", "#a50026", "#d73027", "#f46d43", "#fdae61", "#fee090",
				"#ffffbf", "#e0f3f8", "#abd9e9", "#74add1", "#4575b4", "#313695"),
			mustHex("RdYlGn", "#a50026", "#d73027", "#f46d43", "#fdae61", "#fee08b",
				"#ffffbf", "#d9ef8b", "#a6d96a", "#66bd63", "#1a9850", "#006837"),
			mustHex("Spectral", "#9e0142", "#d53e4f", "#f46d43", "#fdae61", "#fee08b",
				"#ffffbf", "#e6f598", "#abdda4", "#66c2a5", "#3288bd", "#5e4fa2"),
			mustHex("coolwarm", "#3b4cc0", "#8db0fe", "#dddddd", "#f49a7b", "#b40426"),
			mustHex("RdBu", "#67001f", "#b2182b", "#d6604d", "#f4a582", "#fddbc7",
				"#f7f7f7", "#d1e5f0", "#92c5de", "#4393c3", "#2166ac", "#053061"),
			mustHex("bwr", "#0000ff", "#ffffff", "#ff0000"),
			mustHex("seismic", "#00004c", "#0000ff", "#ffffff", "#ff0000", "#7f0000"),
		),
		NewCatalog("Cyclic", true,
			mustHex("twilight", "#e2d9e2", "#9eb6c9", "#6a88bf", "#5c4fa8", "#2f1436",
				"#7d2a54", "#b05e5a", "#c8a290", "#e2d9e2"),
			mustHex("hsv", "#ff0000", "#ffff00", "#00ff00", "#00ffff", "#0000ff",
				"#ff00ff", "#ff0000"),
		),
		NewCatalog("Miscellaneous", true,
			mustHex("jet", "#00007f", "#0000ff", "#007fff", "#00ffff", "#7fff7f",
				"#ffff00", "#ff7f00", "#ff0000", "#7f0000"),
			mustHex("rainbow", "#8000ff", "#1996f3", "#4df3ce", "#b2f396", "#ff964f",
				"#ff0000"),
		),
	}
}
