package main

import "errors"

// Sentinel errors for command operations
var (
	ErrInputFileNotExist  = errors.New("input file does not exist")
	ErrSameInputOutput    = errors.New("output path must differ from input path")
	ErrConfigFileNotExist = errors.New("config file does not exist")
)
