package internal

// FnModeOptions carries the run modes shared by the client, the CLI and the
// bridge: Debug turns on request logging, Test swaps the network for a
// simulated TV.
type FnModeOptions struct {
	Debug bool
	Test  bool
}

type FnModeOption func(*FnModeOptions)

func WithDebug(debug bool) FnModeOption {
	return func(opts *FnModeOptions) {
		opts.Debug = debug
	}
}

func WithTest(test bool) FnModeOption {
	return func(opts *FnModeOptions) {
		opts.Test = test
	}
}

func NewModeOptions(options ...FnModeOption) *FnModeOptions {
	opts := &FnModeOptions{}
	for _, option := range options {
		option(opts)
	}
	return opts
}

// LogLevel returns the logger level matching the mode
func (o *FnModeOptions) LogLevel() string {
	if o != nil && o.Debug {
		return "debug"
	}
	return "info"
}

// Verbose reports whether log output should be enabled at all
func (o *FnModeOptions) Verbose() bool {
	return o != nil && (o.Debug || o.Test)
}
