package chat

// Keyboard is a one-time grid of labels; the chosen label comes back as plain text.
type Keyboard struct {
	Rows        [][]string
	Placeholder string
}

// NewKeyboard chunks options into rows of cols labels, keeping their order.
func NewKeyboard(options []string, cols int, placeholder string) *Keyboard {
	if cols < 1 {
		cols = 1
	}
	rows := make([][]string, 0, (len(options)+cols-1)/cols)
	for n := 0; n < len(options); n += cols {
		end := n + cols
		if end > len(options) {
			end = len(options)
		}
		row := make([]string, end-n)
		copy(row, options[n:end])
		rows = append(rows, row)
	}
	return &Keyboard{
		Rows:        rows,
		Placeholder: placeholder,
	}
}

// Labels flattens the grid back to the option list.
func (k *Keyboard) Labels() []string {
	res := make([]string, 0)
	for _, row := range k.Rows {
		res = append(res, row...)
	}
	return res
}
