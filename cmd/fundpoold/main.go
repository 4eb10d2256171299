package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/EricInMarkham/fundpool"
	"github.com/EricInMarkham/fundpool/coin"
	"github.com/EricInMarkham/fundpool/crypto"
	"github.com/EricInMarkham/fundpool/crypto/bech32"
	"github.com/EricInMarkham/fundpool/store/iavl"
	"github.com/EricInMarkham/fundpool/x/pool"
)

var (
	varHome      *string
	varMaxOwners *uint
	varThreshold *uint
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".fundpoold")
	varHome = flag.String("home", defaultHome, "directory to store files under")
	varMaxOwners = flag.Uint("max-owners", 3, "owner committee capacity")
	varThreshold = flag.Uint("threshold", 2, "approvals required to execute a transfer")
}

func helpMessage() {
	fmt.Println("fundpoold")
	fmt.Println("        Quorum governed fund pool")
	fmt.Println("")
	fmt.Println("help    Print this message")
	fmt.Println("init    Initialize the pool store with the configuration")
	fmt.Println("demo    Run a deposit/request/approve walkthrough")
	fmt.Println("version Print the app version")
	fmt.Println("")
	flag.PrintDefaults()
}

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "fundpool")

	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	var err error
	switch cmd := flag.Arg(0); cmd {
	case "help":
		helpMessage()
	case "init":
		err = initCmd(logger)
	case "demo":
		err = demoCmd(logger)
	case "version":
		fmt.Println(fundpool.Version())
	default:
		fmt.Printf("Unknown command: %s\n", cmd)
		helpMessage()
		os.Exit(1)
	}
	if err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func poolConfig() pool.Config {
	return pool.Config{
		MaxOwners:         uint32(*varMaxOwners),
		ApprovalsRequired: uint32(*varThreshold),
	}
}

func openPool(logger log.Logger) (*pool.Pool, *iavl.CommitStore, error) {
	db, err := iavl.NewCommitStore(*varHome, "fundpool")
	if err != nil {
		return nil, nil, err
	}
	if err := db.LoadLatestVersion(); err != nil {
		return nil, nil, err
	}
	p, err := pool.NewPool(db, poolConfig(), &loggingMover{logger: logger},
		pool.WithObserver(&loggingObserver{logger: logger}))
	if err != nil {
		return nil, nil, err
	}
	return p, db, nil
}

// initCmd creates the store directory and persists the configuration,
// so later runs fail loudly when given different parameters.
func initCmd(logger log.Logger) error {
	if err := os.MkdirAll(*varHome, 0700); err != nil {
		return err
	}
	_, db, err := openPool(logger)
	if err != nil {
		return err
	}
	commit, err := db.Commit()
	if err != nil {
		return err
	}
	logger.Info("pool initialized",
		"home", *varHome,
		"max_owners", *varMaxOwners,
		"threshold", *varThreshold,
		"version", commit.Version)
	return nil
}

// demoCmd walks one full transfer lifecycle against the persisted
// store, generating a fresh committee.
func demoCmd(logger log.Logger) error {
	p, db, err := openPool(logger)
	if err != nil {
		return err
	}

	owners := make([]fundpool.Address, 0, *varMaxOwners)
	for i := uint(0); i < *varMaxOwners; i++ {
		addr := crypto.GenPrivKey().PublicKey().Address()
		if err := p.AddOwner(addr); err != nil {
			return err
		}
		owners = append(owners, addr)
	}
	recipient := crypto.GenPrivKey().PublicKey().Address()

	if err := p.Deposit(owners[0], 1000); err != nil {
		return err
	}
	id, err := p.CreateRequest(owners[0], recipient, 400)
	if err != nil {
		return err
	}
	for _, owner := range owners[1:] {
		req, err := p.Request(id)
		if err != nil {
			return err
		}
		if req.Status != pool.StatusOpen {
			break
		}
		if err := p.Approve(owner, id); err != nil {
			return err
		}
	}

	balance, err := p.CustodyBalance()
	if err != nil {
		return err
	}
	commit, err := db.Commit()
	if err != nil {
		return err
	}
	logger.Info("demo finished",
		"custody", balance,
		"version", commit.Version)
	return nil
}

// render returns the bech32 representation used in all operator facing
// output.
func render(a fundpool.Address) string {
	enc, err := bech32.Encode("pool", a)
	if err != nil {
		return a.String()
	}
	return string(enc)
}

// loggingObserver reports every pool notification to the operator.
type loggingObserver struct {
	logger log.Logger
}

var _ pool.Observer = (*loggingObserver)(nil)

func (o *loggingObserver) OwnerAdded(owner fundpool.Address) {
	o.logger.Info("owner added", "owner", render(owner))
}

func (o *loggingObserver) TransferRequested(id int64, recipient fundpool.Address, amount coin.Amount) {
	o.logger.Info("transfer requested",
		"id", id, "recipient", render(recipient), "amount", amount)
}

func (o *loggingObserver) TransferExecuted(id int64, recipient fundpool.Address, amount coin.Amount) {
	o.logger.Info("transfer executed",
		"id", id, "recipient", render(recipient), "amount", amount)
}

// loggingMover stands in for the external transfer primitive. A real
// deployment plugs a payment rail in here.
type loggingMover struct {
	logger log.Logger
}

var _ pool.Mover = (*loggingMover)(nil)

func (m *loggingMover) Move(recipient fundpool.Address, amount coin.Amount) error {
	m.logger.Info("funds moved", "recipient", render(recipient), "amount", amount)
	return nil
}
