package common

import (
	"io"
	"os"
	"path/filepath"

	"github.com/inconshreveable/log15"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

func makeDefaultLogger(absFilePath string) io.Writer {
	return &lumberjack.Logger{
		Filename:   absFilePath,
		MaxSize:    100,
		MaxBackups: 14,
		MaxAge:     14,
		Compress:   true,
		LocalTime:  true,
	}
}

// LogHandler writes logfmt records at or above lvl into a rotating file
// dir/subDir/filename.
func LogHandler(dir, subDir, filename, lvl string) log15.Handler {
	absFilename := filepath.Join(dir, subDir, filename)
	out := makeDefaultLogger(absFilename)
	return log15.LvlFilterHandler(ParseLvl(lvl), log15.StreamHandler(out, log15.LogfmtFormat()))
}

// TerminalHandler writes to stderr, colored when stderr is a terminal.
func TerminalHandler(lvl string) log15.Handler {
	h := log15.StreamHandler(os.Stderr, log15.LogfmtFormat())
	if isatty.IsTerminal(os.Stderr.Fd()) {
		h = log15.StreamHandler(colorable.NewColorableStderr(), log15.TerminalFormat())
	}
	return log15.LvlFilterHandler(ParseLvl(lvl), h)
}

// ParseLvl falls back to info for unknown level names.
func ParseLvl(lvl string) log15.Lvl {
	logLevel, err := log15.LvlFromString(lvl)
	if err != nil {
		return log15.LvlInfo
	}
	return logLevel
}
