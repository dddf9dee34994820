package main

import "errors"

type Config struct {
	InputPath  string
	OutputDir  string
	ConfigFile string
	Insights   bool
	Model      string
	APIKey     string
	Pretty     bool
	Overwrite  bool
}

func (c Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("missing -in")
	}
	if c.Insights && c.Model == "" {
		return errors.New("missing -model (required with -insights)")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Model:  "gpt-5-mini",
		Pretty: true,
	}
}
