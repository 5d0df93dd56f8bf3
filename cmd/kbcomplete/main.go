package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arborist-dev/kbcomplete/config"
	"github.com/arborist-dev/kbcomplete/internal/proof"
	"github.com/arborist-dev/kbcomplete/internal/saturate"
	"github.com/arborist-dev/kbcomplete/internal/term"
)

func main() {
	cfg := config.Default()
	var configPath string

	root := &cobra.Command{
		Use:   "kbcomplete PROBLEM.yaml",
		Short: "Run unfailing Knuth-Bendix completion over a problem file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			return run(args[0], cfg)
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "YAML config file, overlaid onto the flag defaults")
	config.BindFlags(root, &cfg)

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(path string, cfg config.Config) error {
	problem, err := loadProblem(path)
	if err != nil {
		return err
	}

	st := saturate.New(problem.Sig, cfg)
	for _, ax := range problem.Axioms {
		if err := saturate.LoadAxiom(st, ax); err != nil {
			return fmt.Errorf("loading axiom: %w", err)
		}
	}
	for _, g := range problem.Goals {
		saturate.LoadGoal(st, g.Name, g.Eq)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT)

	stream, cancel := saturate.Run(st)
	for {
		select {
		case res, ok := <-stream:
			if !ok {
				return nil
			}
			if res.Halt != nil {
				fmt.Printf("halted: %s\n", res.Halt.Reason)
				printGoals(problem, st)
				return res.Err
			}
			printMessage(problem.Sig, res.Message)
		case <-interrupt:
			cancel()
		}
	}
}

func printMessage(sig *term.Signature, msg saturate.Message) {
	switch m := msg.(type) {
	case saturate.NewActiveMsg:
		fmt.Printf("+ active: %s -> %s\n", term.Format(m.Active.Rule.LHS, sig), term.Format(m.Active.Rule.RHS, sig))
	case saturate.DeleteActiveMsg:
		fmt.Printf("- active %d retired\n", m.Active.ID)
	case saturate.NewEquationMsg:
		fmt.Printf("= joinable: %s = %s\n", term.Format(m.LHS, sig), term.Format(m.RHS, sig))
	case saturate.ProvedGoalMsg:
		fmt.Printf("? proved goal %q\n", m.Goal.Name)
	}
}

func printGoals(problem *Problem, st *saturate.State) {
	for _, g := range st.Goals {
		if !g.Solved {
			fmt.Printf("goal %q: unsolved\n", g.Name)
			continue
		}
		lhs, rhs, err := proof.Certify(problem.Sig, st.ProofStore, g.Proof)
		if err != nil {
			fmt.Printf("goal %q: solved but proof failed certification: %v\n", g.Name, err)
			continue
		}
		fmt.Printf("goal %q: proved %s = %s\n", g.Name, term.Format(lhs, problem.Sig), term.Format(rhs, problem.Sig))
	}
}
