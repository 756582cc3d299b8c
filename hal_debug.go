package mcp2210

type transportDebug struct {
	id   string
	l    Logger
	next Transport
}

func (t *transportDebug) Read(p []byte) (int, error) {
	t.l.Printf("%5s >>  recv(%d)", t.id, cap(p))
	n, err := t.next.Read(p)
	t.l.Printf("%5s <<  recv %d(%d) %+v", t.id, n, len(p), err)
	if n > 0 {
		t.l.Printf("%s", hexDump(p[:n]))
	}
	return n, err
}

func (t *transportDebug) Write(p []byte) (int, error) {
	t.l.Printf("%5s >>  send", t.id)
	if len(p) > 0 {
		t.l.Printf("%s", hexDump(p))
	}
	n, err := t.next.Write(p)
	t.l.Printf("%5s <<  send %d %+v", t.id, n, err)
	return n, err
}
