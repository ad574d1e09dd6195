// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command hwroute merges routes into route trees.
//
// Routes are read either from a YAML manifest:
//
//	workers: 4
//	routes:
//	  - route: chip(5,5) out(2) relay(2) hbus(46) chip(6,5) hbus(48) vbus(39)
//	    target: chip(5,5)
//	  - route: chip(5,5) out(2) relay(2) hbus(46) chip(6,5) hbus(48) vbus(152)
//	    target: chip(7,5)
//	  - route: chip(5,5) out(2) relay(2) hbus(46) chip(6,5) hbus(48) vbus(39) driver(left,99) term(5,0)
//
// given with -manifest, or from routing results saved with -out and given with
// -load. The target of a route defaults to the chip it ends on. The route tree
// of every source is printed on the standard output.
//
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/db47h/hwroute"
	"github.com/db47h/hwroute/coord"
	"github.com/db47h/hwroute/results"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type manifestRoute struct {
	Route  string `yaml:"route"`
	Target string `yaml:"target"`
}

type manifest struct {
	Workers int             `yaml:"workers"`
	Routes  []manifestRoute `yaml:"routes"`
}

func readManifest(rd io.Reader) (*manifest, error) {
	var m manifest
	dec := yaml.NewDecoder(rd)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decoding manifest")
	}
	return &m, nil
}

func (mr manifestRoute) item() (hwroute.Route, coord.Chip, error) {
	r, err := hwroute.ParseRoute(mr.Route)
	if err != nil {
		return r, coord.Chip{}, err
	}
	if mr.Target == "" {
		c, err := r.TargetChip()
		return r, c, err
	}
	s, err := hwroute.ParseSegment(mr.Target)
	if err != nil {
		return r, coord.Chip{}, errors.Wrap(err, "target")
	}
	c, ok := s.(coord.Chip)
	if !ok {
		return r, coord.Chip{}, errors.Errorf("target %v is not a chip", s)
	}
	return r, c, nil
}

// routing adds all routes of m to a new Routing.
//
func (m *manifest) routing(l *log.Logger) (*results.Routing, error) {
	res := new(results.Routing)
	for i, mr := range m.Routes {
		r, c, err := mr.item()
		if err != nil {
			return nil, errors.Wrapf(err, "route %d", i)
		}
		it, err := res.Add(r, c)
		if err != nil {
			return nil, errors.Wrapf(err, "route %d", i)
		}
		l.Debug("route added", "index", i, "source", it.Source, "target", it.Target, "len", it.Route.Len())
	}
	return res, nil
}

func loadManifest(name string, l *log.Logger) (*results.Routing, int, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	m, err := readManifest(f)
	if err != nil {
		return nil, 0, errors.Wrap(err, name)
	}
	res, err := m.routing(l)
	return res, m.Workers, errors.Wrap(err, name)
}

func loadResults(name string) (*results.Routing, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	res, err := results.Load(f)
	return res, errors.Wrap(err, name)
}

func save(name string, res *results.Routing) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return res.Save(f)
}

// printTrees writes the route tree of every source of res to w.
//
func printTrees(w io.Writer, res *results.Routing, workers int, l *log.Logger) error {
	trees, err := res.Trees(workers)
	if err != nil {
		return err
	}
	for _, src := range res.Sources() {
		t := trees[src]
		l.Info("tree", "source", src, "routes", t.Len())
		if _, err = fmt.Fprintf(w, "# %v\n%v", src, t); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	var (
		mf      string
		in      string
		out     string
		workers int
		verbose bool
	)
	flag.StringVar(&mf, "manifest", "", "read routes from YAML manifest `file`")
	flag.StringVar(&in, "load", "", "read routing results saved with -out from `file`")
	flag.StringVar(&out, "out", "", "save routing results to `file`")
	flag.IntVar(&workers, "workers", 0, "number of worker goroutines, overrides the manifest (0 = GOMAXPROCS)")
	flag.BoolVar(&verbose, "v", false, "verbose output")
	flag.Parse()

	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "hwroute",
	})
	if verbose {
		l.SetLevel(log.DebugLevel)
	}

	var (
		res *results.Routing
		w   int
		err error
	)
	switch {
	case mf != "" && in == "":
		in = mf
		res, w, err = loadManifest(mf, l)
	case in != "" && mf == "":
		res, err = loadResults(in)
	default:
		fmt.Fprintln(os.Stderr, "exactly one of -manifest or -load is required")
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		l.Fatal("loading routes", "err", err)
	}
	if workers > 0 {
		w = workers
	}
	l.Info("routes loaded", "file", in, "routes", res.Len(), "sources", len(res.Sources()))

	if err = printTrees(os.Stdout, res, w, l); err != nil {
		l.Fatal("building trees", "err", err)
	}
	if out != "" {
		if err = save(out, res); err != nil {
			l.Fatal("saving results", "file", out, "err", err)
		}
		l.Info("results saved", "file", out)
	}
}
