// Copyright (c) 2024 The Flokicoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/flokiorg/evm-miner/common"
	"github.com/flokiorg/evm-miner/mining"
	"github.com/flokiorg/evm-miner/mining/algo"
	. "github.com/flokiorg/evm-miner/mining/algo/common"
	"github.com/flokiorg/evm-miner/mining/pb"
	"github.com/flokiorg/evm-miner/utils"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jessevdk/go-flags"
)

const zerosEnv = "NUM_0S"

var (
	parser *flags.Parser
	cfg    common.Config
	logger zerolog.Logger
	engine Engine
)

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {

	parser = flags.NewParser(&cfg, flags.Default|flags.PassDoubleDash)
	parser.SubcommandsOptional = true
	parser.CommandHandler = setup

	mustAddCommand("mine", "Search a second nonce locally", "Search a second nonce whose Pow hash has the requested number of leading zero nibbles.", &mineCommand{})
	mustAddCommand("serve", "Run the solver service", "Expose the local miner to remote clients over gRPC.", &serveCommand{})
	mustAddCommand("solve", "Search on a solver server", "Submit a search to a remote solver service and wait for its reply.", &solveCommand{})
	mustAddCommand("bench", "Compare the evaluation engines", "Measure the evaluation rate of every engine on a single thread.", &benchCommand{})

	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}

	if parser.Active == nil {
		if cfg.Version {
			fmt.Println("Version:", utils.Version)
			return
		}
		parser.WriteHelp(os.Stdout)
	}
}

func mustAddCommand(name, short, long string, data interface{}) {
	if _, err := parser.AddCommand(name, short, long, data); err != nil {
		exitWithError(fmt.Sprintf("failed to register command %s", name), err)
	}
}

// setup runs once the command line is parsed and before the selected
// command executes.
func setup(command flags.Commander, args []string) error {
	if command == nil {
		return nil
	}
	if cfg.Version {
		fmt.Println("Version:", utils.Version)
		return nil
	}

	configFilepath, err := utils.GetFullPath(common.DefaultConfigFilename)
	if err != nil {
		exitWithError("unexpected error", err)
	}
	if opt := parser.FindOptionByShortName('c'); !optionDefined(opt) && utils.FileExists(configFilepath) {
		cfg.ConfigFile = configFilepath
	}

	if cfg.ConfigFile != "" {
		ini := flags.NewIniParser(parser)
		ini.ParseAsDefaults = true
		if err := ini.ParseFile(cfg.ConfigFile); err != nil {
			exitWithError("Failed to parse configuration file", err)
		}
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		exitWithError(fmt.Sprintf("invalid log level: %s", cfg.LogLevel), err)
	}
	zerolog.SetGlobalLevel(level)

	if cfg.NoLogFile {
		logger = log.Logger.Level(level)
	} else {
		logDir, err := getLogDir(cfg.ConfigFile)
		if err != nil {
			exitWithError("failed", err)
		}
		logger = utils.CreateFileLogger(filepath.Join(logDir, common.DefaultLogFilename), level)
	}

	// Validate Algo
	if opt := parser.FindOptionByShortName('a'); !optionDefined(opt) && cfg.Algo == "" {
		cfg.Algo = algo.EVM_INTERPRETER
	}
	if engine, err = algo.Parse(cfg.Algo); err != nil {
		exitWithError(fmt.Sprintf("invalid algo: %s", cfg.Algo), err)
	}

	// Validate Threads
	if opt := parser.FindOptionByShortName('t'); !optionDefined(opt) && cfg.Threads == 0 {
		cfg.Threads = DefaultThreadsMax
	}
	if cfg.Threads > DefaultThreadsMax {
		log.Warn().Msgf("Threads should not exceed the recommended limit: %d", DefaultThreadsMax)
	}

	return command.Execute(args)
}

type mineCommand struct {
	common.MineOptions
}

func (c *mineCommand) Execute(_ []string) error {
	first := parseFirst(c.First)
	requireZeros("mine", c.Zeros)

	printConfiguration(
		fmt.Sprintf("Zeros: %d", c.Zeros),
		fmt.Sprintf("Timeout: %s", c.Timeout),
	)

	ctx, cancel := runContext(c.Timeout)
	defer cancel()

	miner := mining.NewMiner(&cfg, engine, logger)
	solution, err := miner.Mine(ctx, int(c.Zeros), first)
	if err != nil {
		return err
	}

	if !solution.Found() {
		fmt.Println("no solution")
		return nil
	}
	fmt.Printf("first:  %s\nsecond: %s\nhash:   0x%x\n", solution.First.Dec(), solution.Result.Nonce.Dec(), solution.Result.Digest)
	return nil
}

type serveCommand struct {
	common.ServeOptions
}

func (c *serveCommand) Execute(_ []string) error {
	if c.Listen == "" {
		c.Listen = common.DefaultListen
	}
	if c.MaxTimeout < 0 {
		exitWithError(fmt.Sprintf("Invalid maxtimeout: %v. It cannot be negative.", c.MaxTimeout), nil)
	}

	printConfiguration(
		fmt.Sprintf("Listen: %s", c.Listen),
		fmt.Sprintf("MaxTimeout: %s", c.MaxTimeout),
	)

	lis, err := net.Listen("tcp", c.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.Listen, err)
	}

	ctx, cancel := runContext(0)
	defer cancel()

	server := mining.NewServer(mining.NewMiner(&cfg, engine, logger), c.MaxTimeout, logger)
	return server.Serve(ctx, lis)
}

type solveCommand struct {
	common.SolveOptions
}

func (c *solveCommand) Execute(_ []string) error {
	first := parseFirst(c.First)
	requireZeros("solve", c.Zeros)

	if c.Server == "" {
		exitWithError("Solver endpoint (-p, --server) is required but not provided.", nil)
	}

	printConfiguration(
		fmt.Sprintf("Server: %s", c.Server),
		fmt.Sprintf("Zeros: %d", c.Zeros),
		fmt.Sprintf("Timeout: %s", c.Timeout),
		fmt.Sprintf("Retries: %d (max backoff %.1fs)", c.MaxRetries, c.MaxBackoffSeconds),
	)

	client, err := mining.NewClient(c.Server, c.DialTimeout)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := runContext(0)
	defer cancel()

	reply, err := client.Solve(ctx, &pb.SolveRequest{
		Zeros:   c.Zeros,
		First:   first,
		Timeout: c.Timeout,
	}, c.MaxRetries, c.MaxBackoffSeconds)
	if err != nil {
		return err
	}

	if !reply.Found {
		fmt.Println("no solution")
		return nil
	}
	fmt.Printf("first:  %s\nsecond: %s\nhash:   0x%x\n", reply.First.Dec(), reply.Nonce.Dec(), reply.Hash)
	return nil
}

type benchCommand struct {
	common.BenchOptions
}

func (c *benchCommand) Execute(_ []string) error {
	first := parseFirst(c.First)
	if first == nil {
		first = new(uint256.Int)
	}

	ctx, cancel := runContext(0)
	defer cancel()

	results := make([]mining.BenchResult, 0, len(algo.Names()))
	for _, name := range algo.Names() {
		e, err := algo.Parse(name)
		if err != nil {
			return err
		}

		logger.Info().Str("algo", name).Dur("duration", c.Duration).Msg("benchmarking")
		result, err := mining.Benchmark(ctx, e, first, c.Duration)
		if err != nil {
			return err
		}
		results = append(results, result)
	}

	mining.RenderBench(os.Stdout, results)
	return nil
}

// runContext ends on SIGINT or SIGTERM, and after timeout when positive.
func runContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func parseFirst(input string) *uint256.Int {
	if input == "" {
		return nil
	}
	first, err := utils.ParseNonce(input)
	if err != nil {
		exitWithError(fmt.Sprintf("invalid first nonce: %s", input), err)
	}
	return first
}

func requireZeros(command string, zeros uint8) {
	cmd := parser.Find(command)
	if cmd == nil {
		return
	}
	if _, ok := os.LookupEnv(zerosEnv); !ok && !optionDefined(cmd.FindOptionByShortName('n')) {
		exitWithError(fmt.Sprintf("Leading zeros (-n, --zeros or %s) is required but not provided.", zerosEnv), nil)
	}
	if zeros > MAX_ZEROS {
		exitWithError(fmt.Sprintf("Invalid zeros: %d. It cannot exceed %d.", zeros, MAX_ZEROS), nil)
	}
}

func printConfiguration(lines ...string) {
	fmt.Println("\nConfiguration:")
	fmt.Printf("  Algorithm: %s\n", engine.Name())
	fmt.Printf("  Threads: %d\n", cfg.Threads)
	for _, line := range lines {
		fmt.Printf("  %s\n", line)
	}
	fmt.Print("\n\n")
}

func getLogDir(configPath string) (string, error) {
	if _, err := os.Stat(configPath); err == nil {
		return filepath.Dir(configPath), nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check config file: %w", err)
	}

	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	return filepath.Dir(exePath), nil
}

func exitWithError(msg string, err error) {
	log.Error().Err(err).Msg(msg)
	fmt.Println()
	parser.WriteHelp(os.Stdout)
	os.Exit(1)
}

func optionDefined(opt *flags.Option) bool {
	return opt != nil && opt.IsSet()
}
