package sandbox

const (
	DefaultTailwindURL = "https://cdn.tailwindcss.com"
	DefaultReactURL    = "https://unpkg.com/react@18/umd/react.production.min.js"
	DefaultReactDOMURL = "https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"
	DefaultBabelURL    = "https://unpkg.com/@babel/standalone/babel.min.js"
)

// Options selects the script hosts a document loads from.
type Options struct {
	TailwindURL string
	ReactURL    string
	ReactDOMURL string
	BabelURL    string
}

func DefaultOptions() Options {
	return Options{
		TailwindURL: DefaultTailwindURL,
		ReactURL:    DefaultReactURL,
		ReactDOMURL: DefaultReactDOMURL,
		BabelURL:    DefaultBabelURL,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TailwindURL == "" {
		o.TailwindURL = d.TailwindURL
	}
	if o.ReactURL == "" {
		o.ReactURL = d.ReactURL
	}
	if o.ReactDOMURL == "" {
		o.ReactDOMURL = d.ReactDOMURL
	}
	if o.BabelURL == "" {
		o.BabelURL = d.BabelURL
	}
	return o
}
