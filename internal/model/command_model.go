package model

// Command represents a console command with its scope, operation, and arguments
type Command struct {
	Scope     string
	Operation string
	Args      []string
}

// Fields returns the key:value arguments of the command as a map.
// Arguments without a colon are skipped.
func (c Command) Fields() map[string]string {
	fields := make(map[string]string)
	for _, arg := range c.Args {
		key, value, ok := splitField(arg)
		if !ok {
			continue
		}
		fields[key] = value
	}
	return fields
}

// Positional returns the arguments that are not key:value pairs or --flags
func (c Command) Positional() []string {
	var out []string
	for _, arg := range c.Args {
		if _, _, ok := splitField(arg); ok {
			continue
		}
		if len(arg) > 2 && arg[:2] == "--" {
			continue
		}
		out = append(out, arg)
	}
	return out
}

// HasFlag reports whether --name was passed
func (c Command) HasFlag(name string) bool {
	for _, arg := range c.Args {
		if arg == "--"+name {
			return true
		}
	}
	return false
}

func splitField(arg string) (string, string, bool) {
	for i := 0; i < len(arg); i++ {
		if arg[i] == ':' {
			if i == 0 {
				return "", "", false
			}
			return arg[:i], arg[i+1:], true
		}
	}
	return "", "", false
}
