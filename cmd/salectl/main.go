package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"icoledger/config"
	"icoledger/core/sale"
	"icoledger/core/state"
	"icoledger/crypto"
	"icoledger/native/ico"
	"icoledger/observability/logging"
	"icoledger/storage"
)

func main() {
	log := logging.Setup("salectl", os.Getenv("SALE_ENV"))

	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	switch args[0] {
	case "validate":
		if len(args) != 2 {
			usage()
			os.Exit(2)
		}
		if err := validateCampaign(args[1]); err != nil {
			log.Error("campaign file rejected", "path", args[1], "error", err)
			os.Exit(1)
		}
	case "status":
		if len(args) != 4 {
			usage()
			os.Exit(2)
		}
		if err := campaignStatus(log, args[1], args[2], args[3]); err != nil {
			log.Error("status lookup failed", "error", err)
			os.Exit(1)
		}
	case "keygen":
		if err := keygen(); err != nil {
			log.Error("key generation failed", "error", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: salectl <command>

Commands:
  validate <campaign.toml>              check a campaign declaration
  status <config.toml> <name> <symbol>  print campaign and reserve state
  keygen                                generate a key pair and print its addresses
`)
}

// newEngine opens the configured data directory and builds the sale engine
// over it, applying the configured timelock delay.
func newEngine(cfg *config.Config, log *slog.Logger) (*ico.Engine, func() error, error) {
	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	eng := ico.NewEngine(state.NewManager(db))
	eng.SetLogger(log)
	eng.SetTimelockDelay(cfg.TimelockDelay)
	return eng, db.Close, nil
}

func campaignStatus(log *slog.Logger, cfgPath, name, symbol string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	eng, closeDB, err := newEngine(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	id := sale.CampaignID(name, symbol)
	c, err := eng.Campaign(id)
	if err != nil {
		return err
	}
	reserve, err := eng.Reserve(id)
	if err != nil {
		return err
	}
	fmt.Printf("campaign %q (%s): status=%s sold=%d raised=%d launched=%v\n",
		c.Name, c.TokenSymbol, c.Status, c.TokensSold, c.CostRaised, c.Launched())
	fmt.Printf("reserve: total=%d sold=%d delivered=%d transferred=%d unsold=%d\n",
		reserve.Total, reserve.Sold, reserve.Delivered, reserve.Transferred, reserve.Unsold())
	return nil
}

func validateCampaign(path string) error {
	cf, err := config.LoadCampaign(path)
	if err != nil {
		return err
	}
	c, err := cf.Campaign()
	if err != nil {
		return err
	}
	if len(cf.AdminKeys) > 0 {
		if _, err := cf.AdminKeyAddresses(); err != nil {
			return err
		}
	}
	fmt.Printf("campaign %q (%s) ok: supply=%d phases=%d rounds=%d policy=%s\n",
		c.Name, c.TokenSymbol, c.TotalSupply, len(c.Phases), len(c.Rounds), c.StartPolicy)
	return nil
}

func keygen() error {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return err
	}
	fmt.Printf("private key: %x\n", key.Bytes())
	fmt.Printf("investor address: %s\n", key.PubKey().Address(crypto.InvestorPrefix))
	fmt.Printf("admin address: %s\n", key.PubKey().Address(crypto.AdminPrefix))
	return nil
}
