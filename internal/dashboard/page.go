package dashboard

// indexHTML is the full-screen display page. It polls /api/glucose every 30
// seconds and renders the value plus its age; all state lives in the browser.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Glucose Dashboard</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Arial, sans-serif;
            background: #000;
            color: #fff;
            display: flex;
            flex-direction: column;
            justify-content: center;
            align-items: center;
            height: 100vh;
            overflow: hidden;
        }
        #glucose-value { font-size: 15rem; font-weight: bold; line-height: 1; margin-bottom: 20px; }
        #units { font-size: 3rem; color: #888; margin-bottom: 40px; }
        #timestamp { font-size: 2rem; color: #666; }
        #error { font-size: 2rem; color: #ff4444; text-align: center; padding: 20px; }
        .loading { font-size: 3rem; color: #666; }
    </style>
</head>
<body>
    <div id="glucose-value" class="loading">--</div>
    <div id="units">mg/dL</div>
    <div id="timestamp">Loading...</div>
    <div id="error" style="display: none;"></div>

    <script>
        const REFRESH_INTERVAL = 30000;

        function formatMinutesAgo(timestamp) {
            const diffMins = Math.floor((new Date() - new Date(timestamp)) / 60000);
            if (diffMins === 0) return 'just now';
            if (diffMins === 1) return '1 minute ago';
            if (diffMins < 60) return diffMins + ' minutes ago';
            const hours = Math.floor(diffMins / 60);
            const mins = diffMins % 60;
            const h = hours === 1 ? '1 hour' : hours + ' hours';
            return mins === 0 ? h + ' ago' : h + ' ' + mins + ' minutes ago';
        }

        async function fetchGlucose() {
            try {
                const response = await fetch('/api/glucose');
                if (!response.ok) {
                    throw new Error('HTTP error! status: ' + response.status);
                }
                const data = await response.json();
                if (data.error_type) {
                    throw new Error(data.message);
                }
                document.getElementById('glucose-value').textContent = data.value;
                document.getElementById('glucose-value').classList.remove('loading');
                document.getElementById('units').textContent = data.units;
                document.getElementById('timestamp').textContent = formatMinutesAgo(data.timestamp);
                document.getElementById('error').style.display = 'none';
            } catch (error) {
                console.error('Error fetching glucose data:', error);
                document.getElementById('error').textContent = 'Error: ' + error.message;
                document.getElementById('error').style.display = 'block';
                document.getElementById('timestamp').textContent = 'Failed to load';
            }
        }

        fetchGlucose();
        setInterval(fetchGlucose, REFRESH_INTERVAL);
    </script>
</body>
</html>
`
