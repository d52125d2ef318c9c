package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"news-shorts-pipeline/deps"
)

func newDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the external binaries composition depends on",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := deps.CheckBinaries(deps.Defaults())

			rows := make([][]string, 0, len(statuses))
			missing := 0
			for _, st := range statuses {
				state := "ok"
				if !st.Available {
					state = "missing"
					if !st.Optional {
						missing++
					}
				}
				detail := st.Detail
				if detail == "" {
					detail = st.Command
				}
				rows = append(rows, []string{st.Name, state, detail, st.Description})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Dependency", "Status", "Detail", "Used for"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))

			if missing > 0 {
				return fmt.Errorf("%d required binaries missing", missing)
			}
			return nil
		},
	}
}
