package main

import "fmt"
import "flag"
import "time"

import "github.com/bnclabs/golog"
import s "github.com/bnclabs/gosettings"
import humanize "github.com/dustin/go-humanize"
import "github.com/cloudfoundry/gosigar"

import "github.com/bnclabs/objref/lib"
import "github.com/bnclabs/objref/object"

var options struct {
	routines int
	repeat   int
	objects  int
	size     int
	deferdel bool
	track    bool
	capacity int
	minblock int
	maxblock int
	slabs    bool
	log      []string
	loglevel string
	pretty   bool
}

func argParse() {
	var logcomps string

	flag.IntVar(&options.routines, "routines", 8,
		"number of concurrent routines")
	flag.IntVar(&options.repeat, "repeat", 10000,
		"number of reference/dereference per routine")
	flag.IntVar(&options.objects, "objects", 10000,
		"number of objects created per routine")
	flag.IntVar(&options.size, "size", 64,
		"body size of objects in bytes")
	flag.BoolVar(&options.deferdel, "defer", false,
		"free objects via deferred deletion")
	flag.BoolVar(&options.track, "track", false,
		"enable live object tracking")
	flag.IntVar(&options.capacity, "capacity", 0,
		"arena capacity in bytes, default is free RAM")
	flag.IntVar(&options.minblock, "minblock", 32,
		"minimum block size")
	flag.IntVar(&options.maxblock, "maxblock", 1024*1024,
		"maximum block size")
	flag.BoolVar(&options.slabs, "slabs", false,
		"print slab sizes and their expected utilization")
	flag.StringVar(&logcomps, "log", "",
		"enable logging for comma separated components: object,malloc,workq,all")
	flag.StringVar(&options.loglevel, "loglevel", "info",
		"log level: ignore,fatal,error,warn,info,verbose,debug,trace")
	flag.BoolVar(&options.pretty, "pretty", true,
		"print statistics as indented json")
	flag.Parse()

	options.log = lib.Parsecsv(logcomps)
}

func main() {
	argParse()

	log.SetLogger(nil, map[string]interface{}{
		"log.level": options.loglevel,
		"log.file":  "",
	})
	object.LogComponents(options.log...)

	if options.slabs {
		tellutilization()
		return
	}

	printsysmem()
	rt := object.NewRuntime("objstress", runtimesettings())

	now := time.Now()
	refstorm(rt)
	fmt.Printf("refstorm took %v\n", time.Since(now))

	now = time.Now()
	createstorm(rt)
	fmt.Printf("createstorm took %v\n", time.Since(now))

	now = time.Now()
	poolstorm(rt)
	fmt.Printf("poolstorm took %v\n", time.Since(now))

	rt.Close()
	fmt.Println(lib.Prettystats(rt.Stats(), options.pretty))
	for _, ti := range rt.Types() {
		fmt.Printf("type %-10v index:%-3v live:%v\n",
			ti.Name, ti.Index, ti.Numberofobjects)
	}
}

func runtimesettings() s.Settings {
	setts := s.Settings{
		"debug.track":    options.track,
		"arena.minblock": int64(options.minblock),
		"arena.maxblock": int64(options.maxblock),
	}
	if options.capacity > 0 {
		setts["arena.capacity"] = int64(options.capacity)
	}
	return setts
}

func printsysmem() {
	mem := sigar.Mem{}
	if err := mem.Get(); err != nil {
		fmt.Printf("unable to get system memory: %v\n", err)
		return
	}
	total, used := humanize.Bytes(mem.Total), humanize.Bytes(mem.Used)
	free := humanize.Bytes(mem.Free)
	fmt.Printf("system memory total:%v used:%v free:%v\n", total, used, free)
}
