package route

import (
	"context"
	"log"
)

// Load reads and parses the routes from source.
//
// If the routes can not be loaded for any reason a warning is logged and the
// default table is returned instead. A broken route configuration never stops
// the proxy from starting.
func Load(ctx context.Context, source Source, logger *log.Logger) Table {
	table, err := load(ctx, source)
	if err != nil {
		logger.Printf("Failed to load routes from %s, using default routes: %s", source, err)
		table = DefaultTable()
	}

	for _, r := range table {
		logger.Printf(
			"Added route from '%s' to '%s'",
			r.Pattern,
			r.Target,
		)
	}

	return table
}

func load(ctx context.Context, source Source) (Table, error) {
	data, format, err := source.Read(ctx)
	if err != nil {
		return nil, err
	}

	return Parse(data, format)
}
