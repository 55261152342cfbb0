package didi

import (
	"encoding/json"
	"fmt"
)

// Kind specifies the lifecycle policy of a provider.
// The kind determines whether a value is cached and whether it owns a teardown.
type Kind int

const (
	// SingletonKind specifies that a provider's value is constructed once per composer.
	// The value is created on first resolution and cached for the composer's lifetime.
	SingletonKind Kind = iota

	// FactoryKind specifies that a new value is constructed on every resolution.
	FactoryKind

	// ResourceKind specifies that a value is set up once per composer and carries a
	// teardown that runs when the composer is closed.
	ResourceKind
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case SingletonKind:
		return "Singleton"
	case FactoryKind:
		return "Factory"
	case ResourceKind:
		return "Resource"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// IsValid checks if the kind is valid.
func (k Kind) IsValid() bool {
	return k >= SingletonKind && k <= ResourceKind
}

// Cached reports whether values of this kind are kept in the composer's registry.
func (k Kind) Cached() bool {
	return k == SingletonKind || k == ResourceKind
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.IsValid() {
		return nil, &KindError{Value: int(k)}
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Singleton", "singleton":
		*k = SingletonKind
	case "Factory", "factory":
		*k = FactoryKind
	case "Resource", "resource":
		*k = ResourceKind
	default:
		return &KindError{Value: string(text)}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (k Kind) MarshalJSON() ([]byte, error) {
	text, err := k.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	return k.UnmarshalText([]byte(s))
}
