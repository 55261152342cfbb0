package didi

// Disposable is implemented by values that release resources on Close,
// such as *sql.DB or an HTTP client with idle connections.
//
// Example:
//
//	type DatabaseConnection struct {
//	    conn *sql.DB
//	}
//
//	func (dc *DatabaseConnection) Close() error {
//	    return dc.conn.Close()
//	}
type Disposable interface {
	Close() error
}

// ResourceFromCloser declares a resource whose teardown is the value's own
// Close method.
//
//	db := didi.ResourceFromCloser(OpenDatabase, didi.Kw("dsn", settings.Ref("db_dsn")))
func ResourceFromCloser[T Disposable](maker Maker[T], kwargs ...Kwarg) *ResourceProvider[T] {
	if isNilFunc(maker) {
		panic(ErrNilMaker)
	}

	p := Resource(func(args Args) (T, Teardown, error) {
		v, err := maker(args)
		if err != nil {
			var zero T
			return zero, nil, err
		}
		return v, v.Close, nil
	}, kwargs...)
	p.name = funcName(maker)
	return p
}
