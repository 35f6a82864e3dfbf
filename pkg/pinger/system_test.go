package pinger

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
)

func TestParseLine(t *testing.T) {
	for line, want := range map[string]core.Value{
		"64 bytes from 8.8.8.8: icmp_seq=1 ttl=117 time=14.2 ms": core.Some(14.2),
		"Reply from 8.8.8.8: bytes=32 time=14ms TTL=117":         core.Some(14),
		"Reply from 127.0.0.1: bytes=32 time<1ms TTL=128":        core.Some(1),
		"Antwort von 8.8.8.8: Bytes=32 Zeit=9ms TTL=117":         core.Some(9),
		"64 bytes from 1.1.1.1: icmp_seq=3 ttl=57 time=1,5 ms":   core.Some(1.5),
		"Request timed out.":                                     core.Missing,
		"Request timeout for icmp_seq 4":                         core.Missing,
		"From 10.0.0.1 icmp_seq=2 Destination Host Unreachable":  core.Missing,
		"Reply from 10.0.0.1: Destination host unreachable.":     core.Missing,
		"General failure.":                                       core.Missing,
		"no answer yet for icmp_seq=5":                           core.Missing,
		"ping: sendto: No route to host":                         core.Missing,
		"ping: sendmsg: Network is unreachable":                  core.Missing,
		"Request timeout for icmp_seq 7 (Host is down)":          core.Missing,
		"From 10.0.0.1 icmp_seq=3 Time to live exceeded":         core.Missing,
		"From 10.0.0.1 icmp_seq=4 Destination Net Prohibited":    core.Missing,
		"Reply from 10.0.0.1: TTL expired in transit.":           core.Missing,
		"Host is down":                                           core.Missing,
	} {
		got, err := ParseLine(line)
		require.NoError(t, err, line)
		assert.Equal(t, want, got, line)
	}

	_, err := ParseLine("garbage output")
	assert.ErrorIs(t, err, core.ErrMalformedSample)
}

func TestLineReader(t *testing.T) {
	t.Run("Linux", func(t *testing.T) {
		out := strings.Join([]string{
			"PING 8.8.8.8 (8.8.8.8) 56(84) bytes of data.",
			"64 bytes from 8.8.8.8: icmp_seq=1 ttl=117 time=10.1 ms",
			"no answer yet for icmp_seq=2",
			"64 bytes from 8.8.8.8: icmp_seq=3 ttl=117 time=12 ms",
			"",
			"--- 8.8.8.8 ping statistics ---",
			"3 packets transmitted, 2 received, 33% packet loss, time 2003ms",
		}, "\n")

		var got []core.Value
		n, err := newLineReader(strings.NewReader(out), 1).each(func(v core.Value) {
			got = append(got, v)
		})
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, []core.Value{core.Some(10.1), core.Missing, core.Some(12)}, got)
	})

	t.Run("Windows", func(t *testing.T) {
		out := "\r\nPinging 8.8.8.8 with 32 bytes of data:\r\n" +
			"Reply from 8.8.8.8: bytes=32 time=14ms TTL=117\r\n" +
			"Request timed out.\r\n" +
			"\r\nPing statistics for 8.8.8.8:\r\n"

		var got []core.Value
		n, err := newLineReader(strings.NewReader(out), 2).each(func(v core.Value) {
			got = append(got, v)
		})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []core.Value{core.Some(14), core.Missing}, got)
	})

	t.Run("Redirect", func(t *testing.T) {
		out := strings.Join([]string{
			"PING 8.8.8.8 (8.8.8.8) 56(84) bytes of data.",
			"From 192.168.1.1 icmp_seq=1 Redirect Host(New nexthop: 192.168.1.254)",
			"64 bytes from 8.8.8.8: icmp_seq=1 ttl=117 time=10.1 ms",
			"From 192.168.1.1: icmp_seq=2 Redirect Network(New addr: 192.168.1.254)",
			"From 10.0.0.1 icmp_seq=2 Time to live exceeded",
		}, "\n")

		var got []core.Value
		n, err := newLineReader(strings.NewReader(out), 1).each(func(v core.Value) {
			got = append(got, v)
		})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []core.Value{core.Some(10.1), core.Missing}, got)
	})

	t.Run("NoSamples", func(t *testing.T) {
		_, err := newLineReader(strings.NewReader("PING host\n--- host ping statistics ---\n"), 1).each(func(core.Value) {})
		assert.ErrorIs(t, err, core.ErrNoSamples)
	})

	t.Run("Malformed", func(t *testing.T) {
		out := "PING host\n64 bytes: time=3 ms\nping: unknown option -- O\n"
		var got []core.Value
		n, err := newLineReader(strings.NewReader(out), 1).each(func(v core.Value) {
			got = append(got, v)
		})
		assert.ErrorIs(t, err, core.ErrMalformedSample)
		assert.Equal(t, 1, n)
		assert.Equal(t, []core.Value{core.Some(3)}, got)
	})
}

func TestPingCommand(t *testing.T) {
	cfg := &Config{IPVersion: 4, Interval: 200 * time.Millisecond, Timeout: 1500 * time.Millisecond}

	name, args, header := pingCommand("linux", "", "example.com", cfg)
	assert.Equal(t, "ping", name)
	assert.Equal(t, []string{"-O", "-i", "0.2", "-W", "1.5", "example.com"}, args)
	assert.Equal(t, 1, header)

	name, args, header = pingCommand("windows", `C:\Windows\System32\ping.exe`, "example.com", cfg)
	assert.Equal(t, `C:\Windows\System32\ping.exe`, name)
	assert.Equal(t, []string{"-t", "-w", "1500", "example.com"}, args)
	assert.Equal(t, 2, header)

	cfg.IPVersion = 6
	name, args, _ = pingCommand("darwin", "", "::1", cfg)
	assert.Equal(t, "ping6", name)
	assert.Equal(t, []string{"-i", "0.2", "-W", "1500", "::1"}, args)

	_, args, _ = pingCommand("linux", "", "::1", cfg)
	assert.Contains(t, args, "-6")
}

func TestIsTrailer(t *testing.T) {
	assert.True(t, isTrailer("--- 8.8.8.8 ping statistics ---"))
	assert.True(t, isTrailer("Ping-Statistik für 8.8.8.8:"))
	assert.False(t, isTrailer("64 bytes from status.example.com: icmp_seq=1 time=3 ms"))
}

func TestIsInformational(t *testing.T) {
	assert.True(t, isInformational("From 192.168.1.1 icmp_seq=1 Redirect Host(New nexthop: 192.168.1.254)"))
	assert.False(t, isInformational("64 bytes from redirect.example.com: icmp_seq=1 time=3 ms"))
	assert.False(t, isInformational("Request timed out."))
}

// fakePing 写一个输出固定内容的ping脚本，返回脚本路径
func fakePing(t *testing.T, lines ...string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("需要/bin/sh")
	}

	var script strings.Builder
	script.WriteString("#!/bin/sh\n")
	for _, line := range lines {
		script.WriteString("echo '" + line + "'\n")
	}

	path := filepath.Join(t.TempDir(), "ping")
	require.NoError(t, os.WriteFile(path, []byte(script.String()), 0o755))
	return path
}

// drain 读取数据流直到关闭
func drain(t *testing.T, ds core.DataSource) []core.Sample {
	t.Helper()

	var samples []core.Sample
	timeout := time.After(5 * time.Second)
	for {
		select {
		case s, ok := <-ds.DataStream():
			if !ok {
				return samples
			}
			samples = append(samples, s)
		case <-timeout:
			t.Fatal("数据流没有关闭")
		}
	}
}

func TestSystemPinger(t *testing.T) {
	newSource := func(t *testing.T, path string) core.DataSource {
		cfg := testConfig()
		cfg.SystemPing = true
		cfg.PingPath = path
		ds, err := NewPinger([]string{"127.0.0.1"}, cfg)
		require.NoError(t, err)
		ds.Start()
		t.Cleanup(ds.Stop)
		return ds
	}

	t.Run("EndOfStream", func(t *testing.T) {
		ds := newSource(t, fakePing(t,
			"PING 127.0.0.1 (127.0.0.1) 56(84) bytes of data.",
			"64 bytes from 127.0.0.1: icmp_seq=1 ttl=64 time=0.045 ms",
			"no answer yet for icmp_seq=2",
			"64 bytes from 127.0.0.1: icmp_seq=3 ttl=64 time=0.050 ms",
			"",
			"--- 127.0.0.1 ping statistics ---",
			"3 packets transmitted, 2 received, 33% packet loss",
		))

		samples := drain(t, ds)
		require.Len(t, samples, 3)
		assert.Equal(t, "127.0.0.1", samples[0].Target)
		assert.Equal(t, core.Some(0.045), samples[0].Value)
		assert.Equal(t, core.Missing, samples[1].Value)
		assert.Equal(t, core.Some(0.05), samples[2].Value)
		assert.ErrorIs(t, ds.Err(), core.ErrStreamEnded)
	})

	t.Run("Malformed", func(t *testing.T) {
		ds := newSource(t, fakePing(t,
			"PING 127.0.0.1 (127.0.0.1) 56(84) bytes of data.",
			"64 bytes from 127.0.0.1: icmp_seq=1 ttl=64 time=0.045 ms",
			"something unexpected",
		))

		samples := drain(t, ds)
		assert.Len(t, samples, 1)
		assert.ErrorIs(t, ds.Err(), core.ErrMalformedSample)
	})

	t.Run("NoOutput", func(t *testing.T) {
		ds := newSource(t, fakePing(t, "ping: unknown host"))

		assert.Empty(t, drain(t, ds))
		assert.ErrorIs(t, ds.Err(), core.ErrNoSamples)
	})

	t.Run("MissingCommand", func(t *testing.T) {
		cfg := testConfig()
		cfg.SystemPing = true
		cfg.PingPath = filepath.Join(t.TempDir(), "no-such-ping")
		_, err := NewPinger([]string{"127.0.0.1"}, cfg)
		assert.Error(t, err)
	})
}
