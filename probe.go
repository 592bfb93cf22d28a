package main

import (
	"net"
	"strings"
	"sync"
	"time"

	"github.com/kirk91/stats"
	"k8s.io/klog"

	"github.com/kirk91/respreader/resp"
)

const dialTimeout = time.Second * 3

type commandStats struct {
	Total         *stats.Counter
	Error         *stats.Counter
	LatencyMicros *stats.Histogram
}

func newCommandStats(scope *stats.Scope, cmd string) *commandStats {
	cmdScope := scope.NewChild(cmd)
	return &commandStats{
		Total:         cmdScope.Counter("total"),
		Error:         cmdScope.Counter("error"),
		LatencyMicros: cmdScope.Histogram("latency_micros"),
	}
}

// probeConn drives one connection: commands go out as RESP arrays of bulk
// strings, raw socket chunks come back and are fed to an incremental reader.
type probeConn struct {
	conn net.Conn
	r    *resp.Reader
	buf  []byte
}

func newProbeConn(conn net.Conn) *probeConn {
	return &probeConn{
		conn: conn,
		r:    resp.NewReader(),
		buf:  make([]byte, 4096),
	}
}

// Do sends one command and blocks until its reply is fully decoded.
func (c *probeConn) Do(args ...string) (*resp.RespValue, error) {
	array := make([]resp.RespValue, len(args))
	for i, arg := range args {
		array[i] = *resp.NewBulkString(arg)
	}
	if _, err := c.conn.Write(resp.Marshal(resp.NewArray(array))); err != nil {
		return nil, err
	}

	for {
		v, err := c.r.NextReply()
		if err != nil {
			return nil, err
		}
		if v != nil {
			return v, nil
		}
		n, err := c.conn.Read(c.buf)
		if err != nil {
			return nil, err
		}
		if err := c.r.Feed(c.buf[:n]); err != nil {
			return nil, err
		}
	}
}

func (c *probeConn) Close() error {
	return c.conn.Close()
}

// probe periodically sends a fixed command set to a redis server and records
// per-command metrics.
type probe struct {
	addr  string
	cmds  []string
	stats map[string]*commandStats

	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

func newProbe(addr string, cmds []string, scope *stats.Scope) *probe {
	cmdScope := scope.NewChild("cmd")
	sts := make(map[string]*commandStats, len(cmds))
	for _, cmd := range cmds {
		args := strings.Fields(cmd)
		if len(args) == 0 {
			continue
		}
		name := strings.ToLower(args[0])
		sts[name] = newCommandStats(cmdScope, name)
	}
	return &probe{
		addr:  addr,
		cmds:  cmds,
		stats: sts,
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Run executes probe rounds until count is reached or Stop is called. A zero
// count means run forever.
func (p *probe) Run(interval time.Duration, count int) {
	defer close(p.done)
	for i := 0; count == 0 || i < count; i++ {
		if i != 0 {
			select {
			case <-p.quit:
				return
			case <-time.After(interval):
			}
		}
		p.round()
	}
}

func (p *probe) round() {
	conn, err := net.DialTimeout("tcp", p.addr, dialTimeout)
	if err != nil {
		klog.Warningf("dial %s failed: %v", p.addr, err)
		return
	}
	pc := newProbeConn(conn)
	defer pc.Close()

	for _, cmd := range p.cmds {
		args := strings.Fields(cmd)
		if len(args) == 0 {
			continue
		}
		st := p.stats[strings.ToLower(args[0])]
		st.Total.Inc()

		start := time.Now()
		v, err := pc.Do(args...)
		if err != nil {
			st.Error.Inc()
			klog.Warningf("%s failed: %v", cmd, err)
			return
		}
		latency := uint64(time.Since(start) / time.Microsecond)
		st.LatencyMicros.Record(latency)

		if v.Type == resp.Error {
			st.Error.Inc()
		}
		klog.Infof("%s => %s", cmd, v)
	}
}

func (p *probe) Done() <-chan struct{} {
	return p.done
}

func (p *probe) Stop() {
	p.quitOnce.Do(func() {
		close(p.quit)
	})
	<-p.done
}
