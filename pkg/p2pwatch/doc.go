// Package p2pwatch watches DreamBot log files and forwards chat exchanges
// and quest completions to a notifier.
//
// A [Monitor] runs one poll at a time: it finds the newest log file, reads
// it in full, keeps only lines newer than the per-file high-water mark held
// in [State], extracts [Segment] values from them and hands those to a
// [Notifier].
//
// # Basic Usage
//
//	mon, err := p2pwatch.NewMonitor(
//	    p2pwatch.WithLogDir(dir),
//	    p2pwatch.WithInterval(5*time.Minute),
//	    p2pwatch.WithNotifier(notifier),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_, err = mon.Run(ctx, p2pwatch.NewState(), nil)
//
// To drive polls yourself, thread the state through [Monitor.Poll]:
//
//	st := p2pwatch.NewState()
//	st, res := mon.Poll(ctx, st)
//	if res.Err != nil {
//	    log.Printf("%s: %v", res.Status, res.Err)
//	}
//
// # Extractors
//
// Chat segments open on a line containing "CHAT" and close on the next line
// containing "SLOWLY TYPING RESPONSE" or "BAD RESPONSE". Quest completions
// are single lines. Implement [Extractor] or use the rules subpackage to
// add more kinds.
//
// # Disclaimer
//
// This is an unofficial tool and is not affiliated with DreamBot.
package p2pwatch
