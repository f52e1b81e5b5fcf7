// This is free and unencumbered software released into the public domain.

package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"nullprogram.com/x/optparse"

	"nullprogram.com/x/pgpparse/openpgp"
	"nullprogram.com/x/pgpparse/openpgp/packet"
)

// Print the message like fmt.Printf() and then os.Exit(1).
func fatal(format string, args ...interface{}) {
	buf := bytes.NewBufferString("pgpdump: ")
	fmt.Fprintf(buf, format, args...)
	buf.WriteRune('\n')
	os.Stderr.Write(buf.Bytes())
	os.Exit(1)
}

type config struct {
	args     []string
	listMode bool
	mpiMode  bool
	generate bool
	help     bool
}

func usage(w io.Writer) {
	bw := bufio.NewWriter(w)
	i := "  "
	p := "pgpdump"
	f := func(s ...interface{}) {
		fmt.Fprintln(bw, s...)
	}
	f("Usage:")
	f(i, p, "[-hlm] [file]")
	f(i, p, "-g")
	f("Options:")
	f(i, "-g, --generate   write a sample self-signed key to stdout, then exit")
	f(i, "-h, --help       print this help message")
	f(i, "-l, --list       print a human-readable packet listing (default)")
	f(i, "-m, --mpi        include MPI values in the listing")
	bw.Flush()
}

func parse() *config {
	conf := config{listMode: true}

	options := []optparse.Option{
		{"generate", 'g', optparse.KindNone},
		{"help", 'h', optparse.KindNone},
		{"list", 'l', optparse.KindNone},
		{"mpi", 'm', optparse.KindNone},
	}

	results, rest, err := optparse.Parse(options, os.Args)
	if err != nil {
		usage(os.Stderr)
		fatal("%s", err)
	}
	for _, result := range results {
		switch result.Long {
		case "generate":
			conf.generate = true
		case "help":
			usage(os.Stdout)
			os.Exit(0)
		case "list":
			conf.listMode = true
		case "mpi":
			conf.mpiMode = true
		}
	}

	conf.args = rest
	if len(conf.args) > 1 {
		fatal("too many arguments")
	}
	return &conf
}

func main() {
	conf := parse()

	if conf.generate {
		if err := generateKeyring(os.Stdout); err != nil {
			fatal("%s", err)
		}
		return
	}

	var in io.Reader = os.Stdin
	if len(conf.args) == 1 {
		f, err := os.Open(conf.args[0])
		if err != nil {
			fatal("%s", err)
		}
		defer f.Close()
		in = f
	}

	src := packet.NewByteSource(bufio.NewReader(in))
	p := packet.NewParser(src, os.Stdout)
	p.SetListMode(conf.listMode)
	p.SetMPIPrintMode(conf.mpiMode)

	for {
		_, err := p.ParseOne()
		if err == packet.ErrEOF {
			return
		}
		if err != nil {
			fatal("%s", err)
		}
	}
}

// generateKeyring writes a minimal self-signed key (secret key, user ID,
// self-signature) to w, for smoke-testing this tool's list mode against
// known-good input without requiring a separate fixture file.
func generateKeyring(w io.Writer) error {
	var key openpgp.SignKey
	var seed [32]byte
	copy(seed[:], []byte("pgpdump sample key, not secret!!"))
	key.Seed(seed[:])
	key.SetCreated(time.Now().Unix())

	userid := openpgp.UserID{ID: "pgpdump sample <sample@example.invalid>"}

	var buf bytes.Buffer
	buf.Write(key.Packet())
	buf.Write(userid.Packet())
	buf.Write(key.SelfSign(&userid, key.Created(), 0))

	_, err := w.Write(buf.Bytes())
	return err
}
