package render

// Apply returns the style that results from applying SGR parameters left to
// right. An empty list is a reset. Unknown codes are ignored, and a 38/48
// extended color without all of its parameters is skipped.
func (s Style) Apply(params []int) Style {
	if len(params) == 0 {
		params = []int{0}
	}

	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			s = Style{}
		case p == 1:
			s.Attr |= AttrBold
		case p == 4:
			s.Attr |= AttrUnderline
		case p == 7:
			s.Attr |= AttrInverse
		case p == 22:
			s.Attr &^= AttrBold
		case p == 24:
			s.Attr &^= AttrUnderline
		case p == 27:
			s.Attr &^= AttrInverse
		case p >= 30 && p <= 37:
			s.Foreground = BasicColor(p - 30)
		case p == 39:
			s.Foreground = Color{}
		case p >= 40 && p <= 47:
			s.Background = BasicColor(p - 40)
		case p == 49:
			s.Background = Color{}
		case p >= 90 && p <= 97:
			s.Foreground = BasicColor(p - 90 + 8)
		case p >= 100 && p <= 107:
			s.Background = BasicColor(p - 100 + 8)
		case p == 38 || p == 48:
			color, used, ok := extendedColor(params[i+1:])
			i += used
			if !ok {
				continue
			}

			if p == 38 {
				s.Foreground = color
			} else {
				s.Background = color
			}
		}
	}

	return s
}

// extendedColor reads the parameters after 38 or 48: 5;n or 2;r;g;b.
func extendedColor(params []int) (Color, int, bool) {
	if len(params) >= 2 && params[0] == 5 {
		return IndexedColor(params[1]), 2, true
	}

	if len(params) >= 4 && params[0] == 2 {
		return RGBColor(params[1], params[2], params[3]), 4, true
	}

	return Color{}, 0, false
}
