package datasets

import "github.com/Noofbiz/limelight/theme"

// Transform materializes a source into the value a Dataset yields.
type Transform[T any] func(DataPointSource) (T, error)

// Identity yields the source itself.
func Identity(s DataPointSource) (DataPointSource, error) { return s, nil }

// ReadText yields the decoded posting text.
func ReadText(policy Decoding) Transform[Text] {
	return func(s DataPointSource) (Text, error) {
		return s.ReadText(policy)
	}
}

// TextTheme is a posting text with its label.
type TextTheme struct {
	Text  Text
	Theme theme.Theme
}

// ReadTextTheme yields the decoded text paired with the source's theme.
func ReadTextTheme(policy Decoding) Transform[TextTheme] {
	return func(s DataPointSource) (TextTheme, error) {
		text, err := s.ReadText(policy)
		if err != nil {
			return TextTheme{}, err
		}
		return TextTheme{Text: text, Theme: s.Theme()}, nil
	}
}

// RawTextTheme is TextTheme with the text unwrapped to a string.
type RawTextTheme struct {
	Text  string
	Theme theme.Theme
}

// ReadRawTextTheme yields the raw text paired with the source's theme.
func ReadRawTextTheme(policy Decoding) Transform[RawTextTheme] {
	return Then(ReadTextTheme(policy), func(tt TextTheme) RawTextTheme {
		return RawTextTheme{Text: tt.Text.Raw(), Theme: tt.Theme}
	})
}

// Raw unwraps a Text to its string.
func Raw(t Text) string { return t.Raw() }

// ReadRawText yields the posting text as a plain string.
func ReadRawText(policy Decoding) Transform[string] {
	return Then(ReadText(policy), Raw)
}

// Then composes a transform with a pure function applied to its result.
func Then[A, B any](t Transform[A], f func(A) B) Transform[B] {
	return func(s DataPointSource) (B, error) {
		a, err := t(s)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(a), nil
	}
}
