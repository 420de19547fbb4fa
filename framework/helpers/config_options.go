package helpers

// ConfigOption is a single configuration step applied to a target value of
// type T. Constructors accept a vararg list of these.
type ConfigOption[T any] interface {
	Configure(*T) error
}

// ApplyOptions runs each option against the target in order, stopping at the
// first error.
func ApplyOptions[T any, U ConfigOption[T]](target *T, options ...U) error {
	// The separate U parameter lets a package declare its own option type
	// name (ServiceOption, ServerOption) and still pass it straight through.
	for _, o := range options {
		if err := o.Configure(target); err != nil {
			return err
		}
	}
	return nil
}
