package reconcile

import (
	"path/filepath"

	"github.com/rs/zerolog"
)

// Default file names inside the data directory.
const (
	DefaultDataDirName = "data"
	DefaultFormatFile  = "format_clean.csv"
	DefaultIndexFile   = "IndexSQL_find.csv"
	DefaultPriceFile   = "價量調查品項108-112.csv"
	DefaultOutputFile  = "HistoryData.csv"
)

// Options configures one run. Every field is optional.
type Options struct {
	// BaseDir defaults to the working directory.
	BaseDir string
	// DataDir defaults to BaseDir/data.
	DataDir string

	FormatFile string
	IndexFile  string
	PriceFile  string
	OutputFile string

	// Encoding applies to all three inputs and the output. Empty means UTF-8.
	Encoding string

	// Logger receives progress and warnings. Nil discards them.
	Logger *zerolog.Logger
}

// Locations are the resolved paths of one run.
type Locations struct {
	DataDir    string
	FormatFile string
	IndexFile  string
	PriceFile  string
	OutputFile string
}

// Resolve fills every unset location from its directory default.
func (o Options) Resolve() Locations {
	base := o.BaseDir
	if base == "" {
		base = "."
	}
	loc := Locations{
		DataDir:    o.DataDir,
		FormatFile: o.FormatFile,
		IndexFile:  o.IndexFile,
		PriceFile:  o.PriceFile,
		OutputFile: o.OutputFile,
	}
	if loc.DataDir == "" {
		loc.DataDir = filepath.Join(base, DefaultDataDirName)
	}
	if loc.FormatFile == "" {
		loc.FormatFile = filepath.Join(loc.DataDir, DefaultFormatFile)
	}
	if loc.IndexFile == "" {
		loc.IndexFile = filepath.Join(loc.DataDir, DefaultIndexFile)
	}
	if loc.PriceFile == "" {
		loc.PriceFile = filepath.Join(loc.DataDir, DefaultPriceFile)
	}
	if loc.OutputFile == "" {
		loc.OutputFile = filepath.Join(loc.DataDir, DefaultOutputFile)
	}
	return loc
}

// Path returns the input path for id.
func (l Locations) Path(id TableID) string {
	switch id {
	case FormatTable:
		return l.FormatFile
	case IndexTable:
		return l.IndexFile
	case PriceSurveyTable:
		return l.PriceFile
	}
	return ""
}

func (o Options) logger() *zerolog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	nop := zerolog.Nop()
	return &nop
}
