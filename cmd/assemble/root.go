package assemble

import (
	"fmt"
	"strconv"
	"strings"

	cmdUtil "github.com/ValentinKolb/dCTG/cmd/util"
	"github.com/ValentinKolb/dCTG/lib/assembler"
	"github.com/ValentinKolb/dCTG/lib/kmer"
	"github.com/ValentinKolb/dCTG/rpc/common"
	"github.com/ValentinKolb/dCTG/rpc/serializer"
	"github.com/ValentinKolb/dCTG/rpc/transport"
	"github.com/ValentinKolb/dCTG/rpc/transport/base"
	"github.com/ValentinKolb/dCTG/rpc/transport/local"
	"github.com/ValentinKolb/dCTG/rpc/transport/tcp"
	"github.com/ValentinKolb/dCTG/rpc/transport/unix"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var (
	assembleCmdConfig = &common.Config{}
	AssembleCmd       = &cobra.Command{
		Use:     "assemble <kmer-file>",
		Short:   "Reconstruct contigs from a k-mer file",
		Long:    `Reconstruct linear DNA contigs from a k-mer file. The configuration can be set via command line flags or environment variables. The format of the environment variables is DCTG_<flag> (e.g. DCTG_KMER_LEN=19)`,
		Args:    cobra.ExactArgs(1),
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "mode"
	AssembleCmd.PersistentFlags().String(key, "silent", cmdUtil.WrapString("Run mode: silent (total assembly time from rank 0 only, no counts), verbose (phase timings and per-rank statistics), test (write one contig per line to test_<rank>.dat)"))

	key = "kmer-len"
	AssembleCmd.PersistentFlags().Uint64(key, 19, cmdUtil.WrapString("Expected k-mer length in bases; a file with a different length is rejected before any allocation"))

	key = "transport"
	AssembleCmd.PersistentFlags().String(key, "local", cmdUtil.WrapString("Transport connecting the ranks: tcp, unix or local (all ranks in this process)"))

	key = "rank"
	AssembleCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("Own rank for the tcp and unix transports"))

	key = "peers"
	AssembleCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Comma-separated peer list for the tcp and unix transports in the format '0=localhost:7000,1=localhost:7001,...' (one endpoint per rank)"))

	key = "procs"
	AssembleCmd.PersistentFlags().Int(key, 1, cmdUtil.WrapString("Number of in-process ranks for the local transport"))

	key = "load-headroom"
	AssembleCmd.PersistentFlags().Float64(key, 1.5, cmdUtil.WrapString("Slot headroom per shard over K/N; the run fails fast with TableFull if a shard overflows, it never resizes"))

	key = "buffer-factor"
	AssembleCmd.PersistentFlags().Float64(key, 0.2, cmdUtil.WrapString("Send pool capacity per destination as a factor of K/N records; exhaustion is fatal"))

	key = "timeout"
	AssembleCmd.PersistentFlags().Int(key, 30, cmdUtil.WrapString("Timeout in seconds for mesh setup, collectives and flushes of the tcp and unix transports (0 disables); the local transport has no timeout"))

	key = "log-level"
	AssembleCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the assembler configuration
func processConfig(cmd *cobra.Command, args []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	assembleCmdConfig.KmerFile = args[0]
	assembleCmdConfig.KmerLen = viper.GetUint64("kmer-len")
	assembleCmdConfig.Rank = viper.GetInt("rank")
	assembleCmdConfig.Transport = viper.GetString("transport")
	assembleCmdConfig.Procs = viper.GetInt("procs")
	assembleCmdConfig.LoadHeadroom = viper.GetFloat64("load-headroom")
	assembleCmdConfig.BufferFactor = viper.GetFloat64("buffer-factor")
	assembleCmdConfig.TimeoutSecond = viper.GetInt("timeout")
	assembleCmdConfig.LogLevel = viper.GetString("log-level")

	// parse run mode
	mode, err := common.ParseRunMode(viper.GetString("mode"))
	if err != nil {
		return err
	}
	assembleCmdConfig.Mode = mode

	// parse peers
	if peers := viper.GetString("peers"); peers != "" {
		assembleCmdConfig.Peers = map[int]string{}
		for _, peerConfig := range strings.Split(peers, ",") {
			parts := strings.Split(peerConfig, "=")
			if len(parts) != 2 {
				return fmt.Errorf("invalid peer format: %s (expected RANK=ENDPOINT)", peerConfig)
			}
			rank, err := strconv.Atoi(strings.TrimSpace(parts[0]))
			if err != nil {
				return fmt.Errorf("invalid peer rank %s: %v", parts[0], err)
			}
			assembleCmdConfig.Peers[rank] = strings.TrimSpace(parts[1])
		}
	}

	return assembleCmdConfig.Validate()
}

func run(_ *cobra.Command, _ []string) error {
	cfg := assembleCmdConfig

	if err := common.SetLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	// Reject a file with the wrong k-mer length before any allocation
	if err := assembler.VerifyKmerLength(cfg.KmerFile, cfg.KmerLen); err != nil {
		return err
	}

	totalKmers, err := kmer.LineCount(cfg.KmerFile)
	if err != nil {
		return err
	}

	if cfg.Mode == common.ModeVerbose && cfg.Rank == 0 {
		fmt.Printf("#### Total number of kmers: %d\n", totalKmers)
		fmt.Println(cfg.String())
	}

	if cfg.Transport == "local" {
		return runLocal(cfg, totalKmers)
	}
	return runPeer(cfg, totalKmers)
}

// runPeer runs one rank of a socket mesh (tcp or unix).
func runPeer(cfg *common.Config, totalKmers uint64) error {
	endpoints, err := cfg.PeerEndpoints()
	if err != nil {
		return err
	}

	meshCfg := base.MeshConfig{
		Rank:          cfg.Rank,
		Endpoints:     endpoints,
		SendQueueCap:  cfg.SendQueueCap(totalKmers),
		TimeoutSecond: cfg.TimeoutSecond,
	}

	codec := serializer.NewRecordCodec()
	var tp transport.IMeshTransport
	switch cfg.Transport {
	case "tcp":
		tp, err = tcp.NewTCPMeshTransport(codec, meshCfg)
	case "unix":
		tp, err = unix.NewUnixMeshTransport(codec, meshCfg)
	default:
		return fmt.Errorf("invalid transport %s", cfg.Transport)
	}
	if err != nil {
		return err
	}
	defer tp.Close()

	return runRank(cfg, tp, totalKmers)
}

// runLocal runs all ranks as goroutines over the in-process mesh.
func runLocal(cfg *common.Config, totalKmers uint64) error {
	transports, err := local.NewLocalMesh(cfg.Procs, cfg.SendQueueCap(totalKmers))
	if err != nil {
		return err
	}

	var g errgroup.Group
	for _, tp := range transports {
		tp := tp
		g.Go(func() error {
			rankCfg := *cfg
			rankCfg.Rank = tp.Rank()
			return runRank(&rankCfg, tp, totalKmers)
		})
	}
	return g.Wait()
}

// runRank executes the two assembly phases for one rank and emits the output
// of the configured mode.
func runRank(cfg *common.Config, tp transport.IMeshTransport, totalKmers uint64) error {
	kmers, err := kmer.ReadStripe(cfg.KmerFile, tp.Size(), tp.Rank())
	if err != nil {
		return err
	}

	asm := assembler.New(cfg, tp, totalKmers)

	if cfg.Mode == common.ModeVerbose && tp.Rank() == 0 {
		fmt.Printf("Initializing hash table of size %d for %d kmers.\n", asm.TableSize(), totalKmers)
	}

	res, err := asm.Run(kmers)
	if err != nil {
		return err
	}

	switch cfg.Mode {
	case common.ModeTest:
		if err := assembler.WriteTestFile(tp.Rank(), res.Contigs); err != nil {
			return err
		}

	case common.ModeVerbose:
		stats := res.LengthStats()
		fmt.Printf("Rank %d reconstructed %d contigs with %d nodes (len min/mean/max %.0f/%.1f/%.0f, %s insert, %s walk)\n",
			tp.Rank(), len(res.Contigs), res.KmerCount(),
			stats.Min, stats.Mean, stats.Max,
			res.InsertDuration, res.WalkDuration)

	default:
		if tp.Rank() == 0 {
			fmt.Printf("Assembled in %s total\n", res.InsertDuration+res.WalkDuration)
		}
	}

	return nil
}
