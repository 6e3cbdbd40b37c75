package main

import "errors"

var (
	ErrLoadConfig  = errors.New("load config")
	ErrWorkingDir  = errors.New("resolve working directory")
	ErrOpenSink    = errors.New("open log sink")
	ErrZapLogger   = errors.New("create zap logger")
	ErrCloseSink   = errors.New("close log sink")
	ErrInvalidArgs = errors.New("invalid arguments")
)
