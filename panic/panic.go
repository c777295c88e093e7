package panic

// Do runs f, diverting any panic into handle so one bad tape cannot
// take down a whole ingest run.
func Do(f func(), handle func(r interface{})) {
	defer func() {
		if r := recover(); r != nil {
			handle(r)
		}
	}()
	f()
}
