package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/carouselhq/carousel/pkg/client"
)

func apiClient(cmd *cobra.Command) *client.Client {
	server, _ := cmd.Flags().GetString("server")
	return client.NewClient(server)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := apiClient(cmd).Status(context.Background())
		if err != nil {
			return err
		}

		connected := "no"
		if status.DeviceConnected {
			connected = "yes"
		}
		fmt.Printf("Device connected: %s\n", connected)
		fmt.Printf("Accounts:         %d\n", status.Accounts)
		fmt.Printf("Videos:           %d\n", status.Videos)
		fmt.Printf("Active sessions:  %d\n", status.ActiveSessions)
		for phase, count := range status.Sessions {
			fmt.Printf("  %-10s %d\n", phase, count)
		}
		return nil
	},
}

// Session commands
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage carousel sessions",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := apiClient(cmd).ListSessions(context.Background())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tUPLOADED\tCYCLE\tNEXT ACTION")
		for _, s := range sessions {
			next := "-"
			if s.NextActionAt != nil {
				next = s.NextActionAt.Local().Format(time.Kitchen)
			}
			cycle := fmt.Sprintf("%d", s.CurrentCycle)
			if s.TotalCycles != nil {
				cycle = fmt.Sprintf("%d/%d", s.CurrentCycle, *s.TotalCycles)
			}
			fmt.Fprintf(w, "%s\t%s\t%d/%d\t%s\t%s\n",
				s.ID, s.Status, s.VideosUploaded, s.TargetUploads, cycle, next)
		}
		return w.Flush()
	},
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		accountID, _ := cmd.Flags().GetString("account")
		videoID, _ := cmd.Flags().GetString("video")
		targetUploads, _ := cmd.Flags().GetInt("uploads")
		waitMinutes, _ := cmd.Flags().GetInt("wait")
		cycles, _ := cmd.Flags().GetInt("cycles")
		autoRestart, _ := cmd.Flags().GetBool("auto-restart")

		spec := client.SessionSpec{
			AccountID:           accountID,
			VideoID:             videoID,
			TargetUploads:       targetUploads,
			WaitDurationMinutes: waitMinutes,
			AutoRestart:         autoRestart,
		}
		if cycles > 0 {
			spec.TotalCycles = &cycles
		}

		session, err := apiClient(cmd).CreateSession(context.Background(), spec)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Session %s created (%s)\n", session.ID, session.Status)
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one session including its log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := apiClient(cmd).GetSession(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("ID:        %s\n", session.ID)
		fmt.Printf("Status:    %s\n", session.Status)
		fmt.Printf("Account:   %s\n", session.AccountID)
		fmt.Printf("Video:     %s\n", session.VideoID)
		fmt.Printf("Uploaded:  %d/%d\n", session.VideosUploaded, session.TargetUploads)
		if session.TotalCycles != nil {
			fmt.Printf("Cycle:     %d/%d\n", session.CurrentCycle, *session.TotalCycles)
		} else {
			fmt.Printf("Cycle:     %d\n", session.CurrentCycle)
		}
		if session.NextActionAt != nil {
			fmt.Printf("Next:      %s\n", session.NextActionAt.Local().Format(time.RFC1123))
		}
		if len(session.Logs) > 0 {
			fmt.Println("\nLog:")
			fmt.Println("  " + strings.Join(session.Logs, "\n  "))
		}
		return nil
	},
}

func sessionActionCommand(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := apiClient(cmd).SessionAction(context.Background(), args[0], action)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Session %s is now %s\n", session.ID, session.Status)
			return nil
		},
	}
}

func init() {
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionCreateCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionActionCommand("pause", "Pause a session"))
	sessionCmd.AddCommand(sessionActionCommand("resume", "Resume a paused session"))
	sessionCmd.AddCommand(sessionActionCommand("stop", "Stop a session"))

	sessionCreateCmd.Flags().String("account", "", "Account ID")
	sessionCreateCmd.Flags().String("video", "", "Video ID")
	sessionCreateCmd.Flags().Int("uploads", 1, "Videos to upload per cycle")
	sessionCreateCmd.Flags().Int("wait", 60, "Minutes to wait before deletion")
	sessionCreateCmd.Flags().Int("cycles", 0, "Total cycles (0 = unlimited)")
	sessionCreateCmd.Flags().Bool("auto-restart", false, "Restart the cycle after deletion")
	_ = sessionCreateCmd.MarkFlagRequired("account")
	_ = sessionCreateCmd.MarkFlagRequired("video")
}

// Account commands
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage accounts",
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts, err := apiClient(cmd).ListAccounts(context.Background())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tSTATUS\tTODAY\tTOTAL")
		for _, a := range accounts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
				a.ID, a.Username, a.Status, a.VideosUploadedToday, a.TotalVideosUploaded)
		}
		return w.Flush()
	},
}

var accountAddCmd = &cobra.Command{
	Use:   "add USERNAME",
	Short: "Add an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		displayName, _ := cmd.Flags().GetString("display-name")
		account, err := apiClient(cmd).CreateAccount(context.Background(), args[0], displayName)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Account %s added (%s)\n", account.Username, account.ID)
		return nil
	},
}

var accountRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient(cmd).DeleteAccount(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println("✓ Account removed")
		return nil
	},
}

func init() {
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountAddCmd)
	accountCmd.AddCommand(accountRemoveCmd)

	accountAddCmd.Flags().String("display-name", "", "Display name")
}

// Video commands
var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Manage videos",
}

var videoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List videos",
	RunE: func(cmd *cobra.Command, args []string) error {
		videos, err := apiClient(cmd).ListVideos(context.Background())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFILENAME\tSIZE\tUPLOADS")
		for _, v := range videos {
			name := v.OriginalName
			if name == "" {
				name = v.Filename
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", v.ID, name, v.FileSize, v.UploadCount)
		}
		return w.Flush()
	},
}

func init() {
	videoCmd.AddCommand(videoListCmd)
}

// Device commands
var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Manage the phone connection",
}

var deviceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show device connection status",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := apiClient(cmd).DeviceStatus(context.Background())
		if err != nil {
			return err
		}
		if !status.Connected {
			fmt.Println("Device: disconnected")
			return nil
		}
		fmt.Println("Device: connected")
		if status.Info != nil {
			fmt.Printf("  Name:     %s\n", status.Info.DeviceName)
			fmt.Printf("  Platform: %s\n", status.Info.PlatformVersion)
			fmt.Printf("  UDID:     %s\n", status.Info.UDID)
		}
		return nil
	},
}

var deviceConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect to the automation host",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient(cmd).ConnectDevice(context.Background()); err != nil {
			return err
		}
		fmt.Println("✓ Device connected")
		return nil
	},
}

var deviceDisconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Disconnect from the automation host",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient(cmd).DisconnectDevice(context.Background()); err != nil {
			return err
		}
		fmt.Println("✓ Device disconnected")
		return nil
	},
}

func init() {
	deviceCmd.AddCommand(deviceStatusCmd)
	deviceCmd.AddCommand(deviceConnectCmd)
	deviceCmd.AddCommand(deviceDisconnectCmd)
}
