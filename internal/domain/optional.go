package domain

// Optional хранит значение, которое может быть не задано.
// В патчах незаданное поле означает "оставить как есть".
type Optional[T any] struct {
	value T
	set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

// NonEmpty превращает пустую строку в None.
func NonEmpty(s string) Optional[string] {
	if s == "" {
		return None[string]()
	}
	return Some(s)
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

func (o Optional[T]) IsSome() bool {
	return o.set
}
