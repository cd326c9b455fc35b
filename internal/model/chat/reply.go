package chat

// Reply is one outgoing message. Keyboard and RemoveKeyboard are exclusive;
// when both are empty the client keeps whatever keyboard is shown.
type Reply struct {
	Text           string
	Keyboard       *Keyboard
	RemoveKeyboard bool
}

func Text(text string) Reply {
	return Reply{Text: text}
}

func WithKeyboard(text string, keyboard *Keyboard) Reply {
	return Reply{Text: text, Keyboard: keyboard}
}

func ClearKeyboard(text string) Reply {
	return Reply{Text: text, RemoveKeyboard: true}
}
