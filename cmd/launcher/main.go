package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/labstack/gommon/log"

	"compute-worker-launcher/types"
	"compute-worker-launcher/types/config"
	"compute-worker-launcher/types/dataclasses"
	"compute-worker-launcher/types/modules"
	"compute-worker-launcher/types/pool"
	"compute-worker-launcher/types/registries"
	"compute-worker-launcher/types/scheduler"
	"compute-worker-launcher/types/transports"
)

const Version = "0.1.0"

type hostListFlag []string

func (f *hostListFlag) String() string {
	return strings.Join(*f, ";")
}

func (f *hostListFlag) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func help() {
	fmt.Println("compute-worker-launcher version " + Version)
	fmt.Println("Usage: launcher [options] <module name> [arguments]")
	fmt.Println("Options/Arguments:")
	fmt.Println("   -h          Display this help text")
	fmt.Println()
	fmt.Println("   -a p1;p2;.. Add one or more entries to the module search path")
	fmt.Println()
	fmt.Println("   -p count    Override the detected number of processors. Useful for")
	fmt.Println("               reducing the load or creating scheduling-only nodes in")
	fmt.Println("               conjunction with the -c and -s parameters, e.g.")
	fmt.Println("               -p 0 -c host1;host2;host3,...")
	fmt.Println()
	fmt.Println("   -q          Quiet mode - do not print any log messages to stdout")
	fmt.Println()
	fmt.Println("   -c hosts    Network processing: connect to peer servers over a network.")
	fmt.Println("               Requires a semicolon-separated list of host names of the form")
	fmt.Println("                       host.domain[:port] for a direct connection")
	fmt.Println("                 or")
	fmt.Println("                       user@host.domain[:path] for an SSH connection (where")
	fmt.Println("                       \"path\" denotes the place where the launcher is")
	fmt.Println("                       checked out -- by default, \"" + dataclasses.DefaultRemotePath + "\" is used)")
	fmt.Println()
	fmt.Println("   -s file     Connect to additional peer servers specified in a file")
	fmt.Println("               with one name per line (same format as in -c)")
	fmt.Println()
	fmt.Println("   -d          Discover peer servers on the local network via DNS-SD")
	fmt.Println()
	fmt.Println("   -n name     Assign a node name to this instance (Default: host name)")
	fmt.Println()
	fmt.Println("   -v          Be more verbose")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flagSet := flag.NewFlagSet("launcher", flag.ContinueOnError)
	flagSet.SetOutput(os.Stderr)
	flagSet.Usage = help

	var networkHostsFlag hostListFlag

	searchPaths := flagSet.String("a", "", "semicolon-separated module search paths")
	localCount := flagSet.Int("p", runtime.NumCPU(), "local processor count")
	quietMode := flagSet.Bool("q", false, "quiet mode")
	flagSet.Var(&networkHostsFlag, "c", "network host list")
	hostsFile := flagSet.String("s", "", "host list file")
	nodeName := flagSet.String("n", "", "node name")
	verbose := flagSet.Bool("v", false, "verbose logging")
	discover := flagSet.Bool("d", false, "discover peer servers via DNS-SD")

	if len(args) == 0 {
		help()
		return 0
	}
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	_config := config.GetConfig()
	logger := config.GetLogger()
	if *verbose {
		logger.SetLevel(log.DEBUG)
	}

	name := *nodeName
	if name == "" {
		name = _config.Node.Name
	}
	if name == "" {
		hostName, err := os.Hostname()
		if err != nil {
			hostName = "localhost"
		}
		name = hostName
	}

	if err := config.ConfigureAppenders(name, *quietMode); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger.Infof("compute-worker-launcher version %s, node '%s'", Version, name)

	resolver := types.NewFileResolver()
	for _, path := range _config.Modules.SearchPaths {
		resolver.AddPath(path)
	}
	for _, path := range strings.Split(*searchPaths, ";") {
		if path != "" {
			resolver.AddPath(path)
		}
	}

	ctx := context.Background()

	// Command-line hosts come first, file hosts second, discovered
	// hosts last; parsing preserves that order.
	networkHosts := networkHostsFlag.String()
	if *hostsFile != "" {
		fileHosts, err := dataclasses.LoadHostsFile(*hostsFile)
		if err != nil {
			return fatal(err)
		}
		networkHosts = networkHosts + ";" + fileHosts
	}

	specs, err := dataclasses.ParseHostList(networkHosts)
	if err != nil {
		return fatal(err)
	}

	if *discover {
		discovered, err := types.NewDiscovery(_config).DiscoverServers(ctx)
		if err != nil {
			return fatal(err)
		}
		logger.Infof("Discovered %d peer server(s) on the local network", len(discovered))
		specs = append(specs, discovered...)
	}

	_scheduler := scheduler.NewScheduler()
	bootstrap := pool.NewBootstrap(_scheduler, transports.NewOpener(_config), logger)
	if err := bootstrap.Assemble(ctx, *localCount, specs); err != nil {
		return fatal(err)
	}
	defer _scheduler.Shutdown(ctx)

	moduleArgs := flagSet.Args()
	if len(moduleArgs) == 0 {
		fmt.Fprintln(os.Stderr, "A module name must be supplied!")
		return 1
	}

	classRegistry := registries.NewClassRegistry()
	loader := modules.NewLoader(modules.NewPluginBinaryLoader(), classRegistry)

	modulePath, err := resolver.Resolve(moduleArgs[0])
	if err != nil {
		return fatal(err)
	}

	handle, err := loader.Load(modulePath)
	if err != nil {
		return fatal(err)
	}
	defer handle.Unload()

	description, err := handle.Describe()
	if err != nil {
		return fatal(err)
	}
	logger.Infof("Loaded module \"%s\": %s", moduleArgs[0], description)

	services := modules.NewServices(_scheduler, logger, classRegistry, resolver)
	instance, err := handle.Create(services)
	if err != nil {
		return fatal(err)
	}

	if err := instance.Run(ctx, moduleArgs[1:]); err != nil {
		return fatal(err)
	}

	return 0
}

func fatal(err error) int {
	fmt.Fprintf(os.Stderr, "Caught a critical exception: %v\n", err)
	return 1
}
