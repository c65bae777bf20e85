package web

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Birthday Countdown</title>
    <style>
        body { font-family: sans-serif; background: #2b1414; color: #ebdddd; margin: 0; overflow: hidden; }
        main { display: flex; flex-direction: column; align-items: center; justify-content: center; min-height: 100vh; font-size: 1.5em; }
        h1 { font-size: 2.5em; margin-bottom: 0.5em; }
        input, button { font-size: 0.9em; padding: 12px; margin: 0 10px; border-radius: 12px; border: none;
                        background: #6a515147; color: #ebdddd; box-shadow: 0 2px 6px #794d4df7; }
        button { cursor: pointer; transition: all 0.2s; }
        button:hover { background: #b64646f7; transform: scale(1.1); }
        .boxes { display: flex; gap: 6px; margin-top: 40px; color: #c2afaff7; }
        .box { background: #18030347; padding: 32px 14px; border-radius: 24px; white-space: nowrap; }
        .error { margin-top: 40px; padding: 12px; border-radius: 16px; color: #f87171; background: #b67c7c47; font-size: 0.8em; }
        #party { display: none; }
        #confetti { position: fixed; top: 0; left: 0; pointer-events: none; }
    </style>
</head>
<body>
<main>
    <div id="countdown">
        <h1>Happy Birthday!</h1>
        <label>Birthday date:
            <input type="datetime-local" id="target" step="1" onchange="setTarget()">
            <button onclick="start()">Start Timer</button>
        </label>
        <div class="boxes">
            <div class="box"><span id="days">0</span> days</div>
            <div class="box"><span id="hours">0</span> hours</div>
            <div class="box"><span id="minutes">0</span> minutes</div>
            <div class="box"><span id="seconds">0</span> seconds</div>
        </div>
        <p class="error" id="error" style="display: none"></p>
    </div>
    <div id="party">
        <iframe id="video" width="960" height="540" frameborder="0"
                allow="autoplay; encrypted-media; picture-in-picture" allowfullscreen></iframe>
    </div>
</main>
<canvas id="confetti"></canvas>
<script>
    let runId = null;
    let partying = false;

    function render(data) {
        for (const k of ['days', 'hours', 'minutes', 'seconds']) {
            document.getElementById(k).textContent = data[k];
        }
        const input = document.getElementById('target');
        if (data.target && document.activeElement !== input) {
            input.value = data.target;
        }
        const err = document.getElementById('error');
        err.style.display = data.validationError ? 'block' : 'none';
        err.textContent = data.message || '';

        if (data.runId !== runId) {
            runId = data.runId;
            if (partying && !data.expired) stopParty();
        }
        if (data.expired && !partying) startParty(data.videoUrl);
    }

    async function refresh() {
        const res = await fetch('/api/countdown');
        render(await res.json());
    }

    async function setTarget() {
        const res = await fetch('/api/target', {
            method: 'PUT',
            headers: {'Content-Type': 'application/json'},
            body: JSON.stringify({target: document.getElementById('target').value})
        });
        render(await res.json());
    }

    async function start() {
        const res = await fetch('/api/start', {method: 'POST'});
        render(await res.json());
    }

    const canvas = document.getElementById('confetti');
    const ctx = canvas.getContext('2d');
    const colors = ['#f44336', '#e91e63', '#9c27b0', '#3f51b5', '#03a9f4', '#4caf50', '#ffeb3b', '#ff9800'];
    let pieces = [];

    function startParty(url) {
        partying = true;
        document.getElementById('countdown').style.display = 'none';
        document.getElementById('party').style.display = 'block';
        document.getElementById('video').src = url;
        canvas.width = window.innerWidth;
        canvas.height = window.innerHeight;
        pieces = Array.from({length: 200}, () => ({
            x: Math.random() * canvas.width,
            y: Math.random() * -canvas.height,
            w: 6 + Math.random() * 6,
            h: 10 + Math.random() * 8,
            vy: 2 + Math.random() * 3,
            vx: -1 + Math.random() * 2,
            spin: Math.random() * Math.PI,
            color: colors[Math.floor(Math.random() * colors.length)]
        }));
        requestAnimationFrame(drawConfetti);
    }

    function stopParty() {
        partying = false;
        pieces = [];
        ctx.clearRect(0, 0, canvas.width, canvas.height);
        document.getElementById('video').src = 'about:blank';
        document.getElementById('party').style.display = 'none';
        document.getElementById('countdown').style.display = 'block';
    }

    function drawConfetti() {
        if (!partying) return;
        ctx.clearRect(0, 0, canvas.width, canvas.height);
        for (const p of pieces) {
            p.x += p.vx;
            p.y += p.vy;
            p.spin += 0.1;
            if (p.y > canvas.height) { p.y = -20; p.x = Math.random() * canvas.width; }
            ctx.save();
            ctx.translate(p.x, p.y);
            ctx.rotate(p.spin);
            ctx.fillStyle = p.color;
            ctx.fillRect(-p.w / 2, -p.h / 2, p.w, p.h);
            ctx.restore();
        }
        requestAnimationFrame(drawConfetti);
    }

    refresh();
    setInterval(refresh, 1000);
</script>
</body>
</html>`
